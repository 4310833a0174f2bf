package services

// Services defined in this package:
// - IdentityService: resolves which student record an account represents
// - StudentService: administrative lookups and manual linking
