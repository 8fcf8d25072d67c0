package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mohit83k/radiusd/internal/model"
)

// FileClients is a static BAS list loaded from YAML:
//
//	clients:
//	  - ip: 10.0.0.1
//	    secret: testing123
//	    vendor_id: 2011
type FileClients struct {
	byIP map[string]*model.Client
}

type clientsFile struct {
	Clients []model.Client `yaml:"clients"`
}

// LoadFileClients reads path. Entries without ip or secret are rejected.
func LoadFileClients(path string) (*FileClients, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clients file: %w", err)
	}
	return parseFileClients(raw)
}

func parseFileClients(raw []byte) (*FileClients, error) {
	var f clientsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse clients file: %w", err)
	}

	fc := &FileClients{byIP: make(map[string]*model.Client, len(f.Clients))}
	for i := range f.Clients {
		c := f.Clients[i]
		if c.IP == "" || c.Secret == "" {
			return nil, fmt.Errorf("clients[%d]: ip and secret are required", i)
		}
		fc.byIP[c.IP] = &c
	}
	return fc, nil
}

// LookupClient implements Clients.
func (f *FileClients) LookupClient(_ context.Context, ip string) (*model.Client, error) {
	return f.byIP[ip], nil
}

// Len returns the number of configured clients.
func (f *FileClients) Len() int {
	return len(f.byIP)
}
