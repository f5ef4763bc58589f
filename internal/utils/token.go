package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for verification failures
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Session lifetimes in seconds.  A login without rememberMe produces a
// token valid for exactly one day; with rememberMe it is valid for
// exactly seven days.  The cookie Max-Age uses the same values so the
// cookie and the token expire together.
const (
    SessionTTLSeconds     = 86400  // 24h
    SessionTTLLongSeconds = 604800 // 7d, rememberMe
)

// SessionToken represents a signed JWT session token along with its
// issue and expiry times.  The Token field contains the serialized JWT
// string.  Session tokens are stateless: the server keeps no record of
// them, so validity is determined solely by signature and expiry.
type SessionToken struct {
    Token    string    // the serialized JWT string
    IssuedAt time.Time // the UTC issue time
    Exp      time.Time // the UTC expiration time
}

// SessionClaims is the verified identity carried by a session token.
type SessionClaims struct {
    Username string // subject (sub claim)
    Role     string // role claim, reader or contributor
}

// ErrInvalidToken is returned by VerifySessionToken for any token that
// is malformed, carries a bad signature, uses an unexpected signing
// method, or has expired.  Callers never learn which; every failure is
// the same 401 at the HTTP boundary.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a user.  It takes
// the signing secret, the username, the user's role, and the token TTL
// in seconds.  The JWT includes standard claims: subject (sub), role,
// expiration (exp) and issued at (iat).
func NewSessionToken(secret, username, role string, ttlSeconds int) (SessionToken, error) {
    // Truncate to whole seconds so exp-iat is exact when decoded back
    // from the Unix claim values.
    now := time.Now().UTC().Truncate(time.Second)
    exp := now.Add(time.Duration(ttlSeconds) * time.Second)
    // Construct the JWT claims.  Using MapClaims allows arbitrary
    // key/value pairs.  We set sub to the username, role to the user's
    // role, exp to the expiration Unix timestamp, and iat to the
    // issued at time.
    claims := jwt.MapClaims{
        "sub":  username,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    // Sign the token with the provided secret and obtain the string
    // form.  If signing fails, return the error and a zero token.
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, IssuedAt: now, Exp: exp}, nil
}

// VerifySessionToken parses and validates a session token string.  It
// checks the HMAC signature and the exp claim (the jwt library rejects
// expired tokens during Parse) and returns the embedded identity.  Any
// failure collapses into ErrInvalidToken.
func VerifySessionToken(secret, raw string) (SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.  A
        // token signed with "none" or an asymmetric scheme must never
        // verify against the shared secret.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return SessionClaims{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return SessionClaims{}, ErrInvalidToken
    }
    sub, _ := claims["sub"].(string)
    role, _ := claims["role"].(string)
    if sub == "" || role == "" {
        return SessionClaims{}, ErrInvalidToken
    }
    return SessionClaims{Username: sub, Role: role}, nil
}
