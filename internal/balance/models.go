package balance

// Summary is the derived balance view; never stored.
type Summary struct {
	// Total is the sum of every ledger entry for the user.
	Total int64 `json:"total"`
	// Pending sums computed points of submissions still awaiting review.
	Pending int64 `json:"pending"`
	// Reserved is held against in-progress, uncompleted purchases.
	Reserved int64 `json:"reserved"`
	// Available is Total minus Reserved.
	Available int64 `json:"available"`
}

// AffordContext selects the affordability policy. The caller supplies it;
// the engine cannot infer page context itself.
type AffordContext string

const (
	// ContextCatalog: browsing, the candidate item is not yet in any cart.
	ContextCatalog AffordContext = "catalog"
	// ContextCart: checkout, the candidate item is already represented in
	// the reserved amount and must not be subtracted twice.
	ContextCart AffordContext = "cart"
)

// ParseAffordContext validates an affordability context string.
func ParseAffordContext(s string) (AffordContext, bool) {
	switch AffordContext(s) {
	case ContextCatalog, ContextCart:
		return AffordContext(s), true
	}
	return "", false
}
