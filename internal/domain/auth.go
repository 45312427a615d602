package domain

// AuthContext is the caller-resolved authorization context minted by the
// surrounding application. The engine trusts it; it never authenticates.
type AuthContext struct {
	BikeparkIDs  []string `json:"bikeparkIDs"`
	ReportsAdmin bool     `json:"reportsAdmin"`
}

// Narrow intersects requested with the accessible set, preserving request
// order. An empty result is legal and flows into the zero-row SQL sentinel.
func (a AuthContext) Narrow(requested []string) []string {
	accessible := make(map[string]struct{}, len(a.BikeparkIDs))
	for _, id := range a.BikeparkIDs {
		accessible[id] = struct{}{}
	}

	narrowed := make([]string, 0, len(requested))
	for _, id := range requested {
		if _, ok := accessible[id]; ok {
			narrowed = append(narrowed, id)
		}
	}
	return narrowed
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
