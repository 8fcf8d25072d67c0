package model

// Client is a network access server (BAS) allowed to talk to us.
// Redis key: radius:bas:{ip}
type Client struct {
	IP       string `json:"ip" yaml:"ip"`
	Secret   string `json:"secret" yaml:"secret"`
	VendorID int    `json:"vendor_id" yaml:"vendor_id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}
