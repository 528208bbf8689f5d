package v1

// BasePath is the common prefix of all API routes.
const BasePath = "/api"
