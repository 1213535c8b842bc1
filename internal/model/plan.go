package model

// Plan is the difference between the manifest's desired state and the
// recorded state. Apply ordering is fixed: accounts are created before
// their credentials, credentials are deleted before their accounts.
type Plan struct {
	CreateAccounts    []UserSpec `json:"create_accounts"`
	DeleteAccounts    []string   `json:"delete_accounts"`
	CreateCredentials []FlatKey  `json:"create_credentials"`
	DeleteCredentials []string   `json:"delete_credentials"`
}

// Empty reports whether the plan contains no changes.
func (p Plan) Empty() bool {
	return len(p.CreateAccounts) == 0 &&
		len(p.DeleteAccounts) == 0 &&
		len(p.CreateCredentials) == 0 &&
		len(p.DeleteCredentials) == 0
}
