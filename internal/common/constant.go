package common

// TokenHeaderName is the HTTP header used to carry the bearer token on
// authenticated requests. The web client sends the raw token, no scheme.
const TokenHeaderName = "Token"
