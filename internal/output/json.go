package output

import (
	"encoding/json"

	"github.com/sendlens/sendlens/internal/core"
)

// JSONFormatter renders accounts as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatAccounts renders the inventory as a JSON array with a derived
// eligibility flag per account.
func (f *JSONFormatter) FormatAccounts(accounts []core.Account) (string, error) {
	type accountView struct {
		core.Account
		Eligible bool `json:"eligible"`
	}

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView{Account: a, Eligible: a.Eligible()})
	}

	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(views, "", "  ")
	} else {
		data, err = json.Marshal(views)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
