package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// OriginPolicy is YAML config structure
// payment_gateways:
//   - https://...
type OriginPolicy struct {
	// PaymentGateways are always accepted as origins, by exact or prefix
	// match, regardless of the allow-list. The payment collaborator's
	// hosted checkout pages live here.
	PaymentGateways []string `yaml:"payment_gateways"`
}

// defaultPaymentGateways is used when no policy file is present.
var defaultPaymentGateways = []string{
	"https://pay.coinbase.com",
	"https://x402.org",
}

// LoadOriginPolicy reads the origin policy from a YAML file. A missing file
// is not an error: the built-in gateway defaults apply.
func LoadOriginPolicy(path string) (*OriginPolicy, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &OriginPolicy{PaymentGateways: defaultPaymentGateways}, nil
		}
		return nil, err
	}
	defer f.Close()

	var policy OriginPolicy
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&policy); err != nil {
		return nil, err
	}
	if len(policy.PaymentGateways) == 0 {
		policy.PaymentGateways = defaultPaymentGateways
	}
	return &policy, nil
}
