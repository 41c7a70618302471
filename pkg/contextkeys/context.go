package contextkeys

// Custom type so keys cannot collide with other packages.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB
// (pool or transaction) is stored.
const DBContextKey = contextKey("db")
