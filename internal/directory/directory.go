// Package directory holds the client (BAS) and user lookups used by the
// dispatchers. Lookups return (nil, nil) when the key is simply absent.
package directory

import (
	"context"

	"github.com/mohit83k/radiusd/internal/model"
)

// Clients resolves a datagram source address to its BAS record.
type Clients interface {
	LookupClient(ctx context.Context, ip string) (*model.Client, error)
}

// Users resolves a User-Name to its account.
type Users interface {
	LookupUser(ctx context.Context, name string) (*model.User, error)
}

// ClientChain tries each directory in order and returns the first hit.
type ClientChain []Clients

// LookupClient implements Clients.
func (c ClientChain) LookupClient(ctx context.Context, ip string) (*model.Client, error) {
	for _, d := range c {
		client, err := d.LookupClient(ctx, ip)
		if err != nil {
			return nil, err
		}
		if client != nil {
			return client, nil
		}
	}
	return nil, nil
}
