package globals

// Context keys
type ContextKey string

const AdminIDKey ContextKey = "adminId"
const UsernameKey ContextKey = "username"
