package access

// Principal is an authenticated account as seen by the gates.
type Principal struct {
	ID          string
	Email       string
	Metadata    map[string]any
	AppMetadata map[string]any
}

func metadataRole(m map[string]any) string {
	if m == nil {
		return ""
	}
	role, _ := m["role"].(string)
	return role
}
