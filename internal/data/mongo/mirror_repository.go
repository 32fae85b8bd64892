// Package mongo provides the MongoDB implementation of the mirror entry
// store used by the ledger mirror service.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
)

const (
	// MirrorCollectionName is the name of the mirror entry collection in MongoDB
	MirrorCollectionName = "mirror_entries"
)

// entryDoc is the stored shape of a mirror entry. Amounts are kept as
// strings so decimal values round-trip exactly.
type entryDoc struct {
	ID               string    `bson:"_id"`
	SmeID            string    `bson:"sme_id"`
	Type             string    `bson:"type"`
	Amount           string    `bson:"amount"`
	Category         string    `bson:"category"`
	Description      string    `bson:"description,omitempty"`
	Date             time.Time `bson:"date"`
	CreatedAt        time.Time `bson:"created_at"`
	BlockchainStatus string    `bson:"blockchain_status"`
}

func toDoc(e *mirror.Entry) entryDoc {
	return entryDoc{
		ID:               e.ID,
		SmeID:            e.SmeID,
		Type:             e.Type,
		Amount:           e.Amount.String(),
		Category:         e.Category,
		Description:      e.Description,
		Date:             e.Date,
		CreatedAt:        e.CreatedAt,
		BlockchainStatus: e.BlockchainStatus,
	}
}

func fromDoc(d entryDoc) (mirror.Entry, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return mirror.Entry{}, fmt.Errorf("stored amount %q is not a decimal: %w", d.Amount, err)
	}
	return mirror.Entry{
		ID:               d.ID,
		SmeID:            d.SmeID,
		Type:             d.Type,
		Amount:           amount,
		Category:         d.Category,
		Description:      d.Description,
		Date:             d.Date,
		CreatedAt:        d.CreatedAt,
		BlockchainStatus: d.BlockchainStatus,
	}, nil
}

// MirrorRepository implements the mirror.Store interface for MongoDB
type MirrorRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewMirrorRepository creates a new MongoDB mirror entry repository
func NewMirrorRepository(logger *slog.Logger, db *mongo.Database) mirror.Store {
	return &MirrorRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a mirror entry
func (r *MirrorRepository) Insert(ctx context.Context, entry *mirror.Entry) error {
	collection := r.db.Collection(MirrorCollectionName)

	_, err := collection.InsertOne(ctx, toDoc(entry))
	if err != nil {
		r.logger.Error("Failed to insert mirror entry", "id", entry.ID, "error", err)
		return fmt.Errorf("failed to insert mirror entry: %w", err)
	}

	return nil
}

// ListAll returns every mirror entry, newest first
func (r *MirrorRepository) ListAll(ctx context.Context) ([]mirror.Entry, error) {
	return r.list(ctx, bson.M{})
}

// ListBySme returns one tenant's mirror entries, newest first
func (r *MirrorRepository) ListBySme(ctx context.Context, smeID string) ([]mirror.Entry, error) {
	return r.list(ctx, bson.M{"sme_id": smeID})
}

func (r *MirrorRepository) list(ctx context.Context, filter bson.M) ([]mirror.Entry, error) {
	collection := r.db.Collection(MirrorCollectionName)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list mirror entries", "error", err)
		return nil, fmt.Errorf("failed to list mirror entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []mirror.Entry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode mirror entry: %w", err)
		}
		entry, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mirror entries: %w", err)
	}

	return entries, nil
}

// DeleteByID removes a mirror entry
func (r *MirrorRepository) DeleteByID(ctx context.Context, id string) error {
	collection := r.db.Collection(MirrorCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mirror.ErrEntryNotFound{ID: id}
		}
		r.logger.Error("Failed to delete mirror entry", "id", id, "error", err)
		return fmt.Errorf("failed to delete mirror entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return mirror.ErrEntryNotFound{ID: id}
	}

	return nil
}

// SummarizeBySme aggregates one tenant's totals. Sums are computed over the
// stored string amounts so no precision is lost to floating point.
func (r *MirrorRepository) SummarizeBySme(ctx context.Context, smeID string) (*mirror.Summary, error) {
	entries, err := r.ListBySme(ctx, smeID)
	if err != nil {
		return nil, err
	}

	summary := &mirror.Summary{
		SmeID:        smeID,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, e := range entries {
		switch e.Type {
		case "income":
			summary.TotalIncome = summary.TotalIncome.Add(e.Amount)
		case "expense":
			summary.TotalExpense = summary.TotalExpense.Add(e.Amount)
		}
		summary.TransactionCount++
	}
	summary.NetCashflow = summary.TotalIncome.Sub(summary.TotalExpense)

	return summary, nil
}
