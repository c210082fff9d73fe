package common

// GetAccountFromArgs extracts the account name from request arguments,
// defaulting to "default" when no account was given.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
