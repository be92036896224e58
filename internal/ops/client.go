package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/errors"
)

// ClientAddInput contains parameters for the ClientAdd operation.
type ClientAddInput struct {
	Nom       string // required, stored uppercased
	Type      string // individu | entreprise | organisation; default individu
	Telephone string
	Notes     string
}

// ClientAddOutput contains the result of the ClientAdd operation.
type ClientAddOutput struct {
	ID  string `json:"id"`
	Nom string `json:"nom"`
}

// ClientAdd creates a new client dossier.
func ClientAdd(ctx context.Context, database *sql.DB, cfg *config.Config, input ClientAddInput) (*ClientAddOutput, error) {
	nom := strings.ToUpper(strings.TrimSpace(input.Nom))
	if nom == "" {
		return nil, errors.NewInvalidRequest("nom is required")
	}

	typ := strings.ToLower(strings.TrimSpace(input.Type))
	if typ == "" {
		typ = "individu"
	}
	if !validClientType(typ) {
		return nil, errors.NewInvalidRequest("type must be one of: " + strings.Join(ClientTypes, ", "))
	}

	c := &db.Client{
		ID:        db.NewID(),
		Nom:       nom,
		Type:      typ,
		Telephone: strings.TrimSpace(input.Telephone),
		Notes:     input.Notes,
	}
	if err := db.InsertClient(ctx, database, c); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ClientAddOutput{ID: c.ID, Nom: c.Nom}, nil
}

// ClientGetInput contains parameters for the ClientGet operation.
type ClientGetInput struct {
	ID string
}

// ClientGetOutput contains the result of the ClientGet operation.
type ClientGetOutput struct {
	Client *db.Client `json:"client"`
}

// ClientGet fetches one client dossier.
func ClientGet(ctx context.Context, database *sql.DB, cfg *config.Config, input ClientGetInput) (*ClientGetOutput, error) {
	c, err := loadClient(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}
	return &ClientGetOutput{Client: c}, nil
}

// ClientListOutput contains the result of the ClientList operation.
type ClientListOutput struct {
	Clients []*db.Client `json:"clients"`
	Count   int          `json:"count"`
}

// ClientList returns all client dossiers ordered by name.
func ClientList(ctx context.Context, database *sql.DB, cfg *config.Config) (*ClientListOutput, error) {
	clients, err := db.ListClients(ctx, database)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &ClientListOutput{Clients: clients, Count: len(clients)}, nil
}

// ClientUpdateInfoInput contains parameters for the ClientUpdateInfo
// operation. Nil fields are left untouched (merge-patch).
type ClientUpdateInfoInput struct {
	ID        string
	Telephone *string
	Notes     *string
}

// ClientUpdateInfoOutput contains the result of the ClientUpdateInfo operation.
type ClientUpdateInfoOutput struct {
	Client *db.Client `json:"client"`
}

// ClientUpdateInfo patches the contact fields of a dossier.
func ClientUpdateInfo(ctx context.Context, database *sql.DB, cfg *config.Config, input ClientUpdateInfoInput) (*ClientUpdateInfoOutput, error) {
	c, err := loadClient(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}

	telephone := c.Telephone
	if input.Telephone != nil {
		telephone = strings.TrimSpace(*input.Telephone)
	}
	notes := c.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}

	if err := db.UpdateClientInfo(ctx, database, c.ID, telephone, notes); err != nil {
		return nil, errors.NewInternal(err)
	}

	c.Telephone = telephone
	c.Notes = notes
	return &ClientUpdateInfoOutput{Client: c}, nil
}
