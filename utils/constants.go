package utils

import "time"

// AssignLockTTL bounds how long an assignment lock can be held.
const AssignLockTTL = 10 * time.Second

// AssignLockRetries is how many times lock acquisition is retried before
// giving up.
const AssignLockRetries = 5

// AssignLockRetryDelay is the pause between lock acquisition attempts.
const AssignLockRetryDelay = 100 * time.Millisecond

// VersionRetries bounds automatic retries on optimistic version
// conflicts; these are the only errors safe to retry with the same
// arguments.
const VersionRetries = 3
