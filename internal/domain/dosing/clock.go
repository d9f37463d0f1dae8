package dosing

import "time"

// timeNow is swapped in handler tests.
var timeNow = time.Now
