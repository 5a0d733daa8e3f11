package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UsersKey is the storage key holding the serialized staff collection.
const UsersKey = "users"
