// internal/app/system/limits/limits.go
package limits

// Request body size limits. Bodies larger than these are refused with 413
// before they are decoded.
const (
	// MaxJSONBody bounds the body of every JSON write endpoint.
	MaxJSONBody = 64 << 10 // 64 KB

	// MaxLoginBody bounds POST /login, which only carries two short fields.
	MaxLoginBody = 16 << 10 // 16 KB
)
