// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL caps how long a verified token stays cached.
const AuthCacheTTL = 10 * time.Minute

// IdempotencyPrefix namespaces booking idempotency keys.
const IdempotencyPrefix = "idem:booking:"

// RoomChannel is the Redis pub/sub channel used to fan chat events out across instances.
const RoomChannel = "hausly:rooms"
