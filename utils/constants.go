package utils

import "time"

// SlotLockPrefix is the prefix used for Redis slot reservation keys.
const SlotLockPrefix = "slotlock:"

// SlotLockTTL bounds how long a crashed process can hold a slot key.
const SlotLockTTL = 10 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"
