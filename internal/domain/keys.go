package domain

// KeyPrefix namespaces every cache store key written by this service.
const KeyPrefix = "dinerank:"
