package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/utils"
)

const (
	headerApiKey           = "X-API-KEY"
	headerAccessTime       = "X-ACCESS-TIME"
	headerRequestSignature = "X-REQUEST-SIGNATURE"

	// maxClockSkew bounds how far a client clock may drift before requests
	// are rejected as replayable.
	maxClockSkew = 5 * time.Minute
)

// AccessTime requires a unix-seconds X-ACCESS-TIME header within the allowed
// clock skew. The value also feeds the request signature check.
func AccessTime() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(headerAccessTime)
			if raw == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Missing access time")
				return
			}

			ts, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid access time")
				return
			}

			drift := time.Since(time.Unix(ts, 0))
			if drift < -maxClockSkew || drift > maxClockSkew {
				utils.WriteError(w, http.StatusUnauthorized, "Access time outside allowed window")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ApiKey requires the salted digest of the configured backend key in
// X-API-KEY. Comparison is constant time.
func ApiKey(apiKey, salt string) func(http.Handler) http.Handler {
	expected := saltedDigest(apiKey, salt)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(headerApiKey)
			if provided == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			if !hmac.Equal([]byte(provided), []byte(expected)) {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSignature requires X-REQUEST-SIGNATURE to be the HMAC-SHA256 of
// "<method>:<path>:<access time>" keyed with the server salt, hex encoded.
func RequestSignature(salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(headerRequestSignature)
			if signature == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Missing request signature")
				return
			}

			payload := r.Method + ":" + r.URL.Path + ":" + r.Header.Get(headerAccessTime)
			expected := signPayload(payload, salt)

			if !hmac.Equal([]byte(signature), []byte(expected)) {
				utils.WriteError(w, http.StatusUnauthorized, "Invalid request signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func saltedDigest(value, salt string) string {
	sum := sha256.Sum256([]byte(value + salt))
	return hex.EncodeToString(sum[:])
}

func signPayload(payload, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
