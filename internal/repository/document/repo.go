// Package document is the Redis-backed document repository. Documents are
// hashes, ratings are per-document hashes keyed by user, and favorites and
// group memberships are sets.
package document

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/filter"
	usecase "github.com/harbormind/docsearch/internal/usecase/search"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements the search and backfill store contracts.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func docKey(id string) string        { return domain.KeyPrefix + "doc:" + id }
func ratingsKey(docID string) string { return domain.KeyPrefix + "ratings:" + docID }
func favoritesKey(userID string) string {
	return domain.KeyPrefix + "favorites:" + userID
}
func userGroupsKey(userID string) string {
	return domain.KeyPrefix + "user_groups:" + userID
}

// Put creates or replaces a document record.
func (r *Repo) Put(ctx context.Context, doc *domain.Document) error {
	fields, err := buildHashFields(doc)
	if err != nil {
		return fmt.Errorf("build document %s: %w", doc.ID, err)
	}
	if err := r.store.HSet(ctx, docKey(doc.ID), fields); err != nil {
		return fmt.Errorf("put document %s: %w", doc.ID, err)
	}
	return nil
}

// Get fetches a single document by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Document, error) {
	fields, err := r.store.HGetAll(ctx, docKey(id))
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrDocumentNotFound
	}
	doc, err := parseHashFields(fields)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document and its rating records.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, docKey(id)); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if err := r.store.Del(ctx, ratingsKey(id)); err != nil {
		return fmt.Errorf("delete ratings for %s: %w", id, err)
	}
	return nil
}

// AddRating records one user's rating for a document. A repeat rating by the
// same user overwrites the previous value.
func (r *Repo) AddRating(ctx context.Context, docID, userID string, value float64) error {
	fields := map[string]string{userID: strconv.FormatFloat(value, 'f', -1, 64)}
	if err := r.store.HSet(ctx, ratingsKey(docID), fields); err != nil {
		return fmt.Errorf("add rating for %s: %w", docID, err)
	}
	return nil
}

// RemoveRating retracts one user's rating for a document.
func (r *Repo) RemoveRating(ctx context.Context, docID, userID string) error {
	if err := r.store.HDel(ctx, ratingsKey(docID), userID); err != nil {
		return fmt.Errorf("remove rating for %s: %w", docID, err)
	}
	return nil
}

// AddFavorite marks a document as a favorite of the user.
func (r *Repo) AddFavorite(ctx context.Context, userID, docID string) error {
	if err := r.store.SAdd(ctx, favoritesKey(userID), docID); err != nil {
		return fmt.Errorf("add favorite for %s: %w", userID, err)
	}
	return nil
}

// RemoveFavorite unmarks a favorite.
func (r *Repo) RemoveFavorite(ctx context.Context, userID, docID string) error {
	if err := r.store.SRem(ctx, favoritesKey(userID), docID); err != nil {
		return fmt.Errorf("remove favorite for %s: %w", userID, err)
	}
	return nil
}

// SetUserGroups replaces a user's group memberships.
func (r *Repo) SetUserGroups(ctx context.Context, userID string, groupIDs []string) error {
	key := userGroupsKey(userID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("reset groups for %s: %w", userID, err)
	}
	if len(groupIDs) == 0 {
		return nil
	}
	if err := r.store.SAdd(ctx, key, groupIDs...); err != nil {
		return fmt.Errorf("set groups for %s: %w", userID, err)
	}
	return nil
}

// GroupsOf returns a user's group memberships. An unknown user has none.
func (r *Repo) GroupsOf(ctx context.Context, userID string) ([]string, error) {
	groups, err := r.store.SMembers(ctx, userGroupsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("groups of %s: %w", userID, err)
	}
	return groups, nil
}

// Search runs a paginated predicate query. The full candidate set is loaded
// and filtered before paging so the total count covers every match.
func (r *Repo) Search(ctx context.Context, q *usecase.Query) ([]filter.Candidate, int64, error) {
	matched, err := r.loadCandidates(ctx, q.Filter, q.HydrateRatings)
	if err != nil {
		return nil, 0, err
	}

	sortCandidates(matched, q.Sort)

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

// SearchAll returns every match, unpaged and unsorted.
func (r *Repo) SearchAll(ctx context.Context, flt *filter.Filter) ([]filter.Candidate, error) {
	return r.loadCandidates(ctx, flt, false)
}

// MissingEmbeddings returns every non-archived document without an embedding.
// Archived documents are never returned by semantic search, so vectorizing
// them would be wasted provider calls; they are picked up if unarchived.
func (r *Repo) MissingEmbeddings(ctx context.Context) ([]domain.Document, error) {
	docs, err := r.loadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	var missing []domain.Document
	for i := range docs {
		if docs[i].Archived || docs[i].HasEmbedding() {
			continue
		}
		missing = append(missing, docs[i])
	}
	return missing, nil
}

// SaveEmbedding persists a computed embedding on the document record.
func (r *Repo) SaveEmbedding(ctx context.Context, docID string, embedding []float32) error {
	exists, err := r.store.Exists(ctx, docKey(docID))
	if err != nil {
		return fmt.Errorf("check document %s: %w", docID, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	fields := map[string]string{fieldEmbedding: string(encodeVector(embedding))}
	if err := r.store.HSet(ctx, docKey(docID), fields); err != nil {
		return fmt.Errorf("save embedding for %s: %w", docID, err)
	}
	return nil
}

// loadCandidates loads all documents, hydrates the related records the
// filter needs, and evaluates the filter.
func (r *Repo) loadCandidates(
	ctx context.Context, flt *filter.Filter, hydrateRatings bool,
) ([]filter.Candidate, error) {
	docs, err := r.loadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]filter.Candidate, len(docs))
	for i := range docs {
		cands[i] = filter.Candidate{Doc: &docs[i]}
	}

	if hydrateRatings || flt.NeedsRatings() {
		if err := r.hydrateRatings(ctx, cands); err != nil {
			return nil, err
		}
	}
	if userID := flt.FavoritesFor(); userID != "" {
		if err := r.hydrateFavorites(ctx, cands, userID); err != nil {
			return nil, err
		}
	}

	matched := cands[:0]
	for i := range cands {
		if flt.Matches(&cands[i]) {
			matched = append(matched, cands[i])
		}
	}
	return matched, nil
}

// loadDocuments scans all document keys and fetches them in one pipelined
// round-trip. Keys are sorted so iteration order is deterministic.
func (r *Repo) loadDocuments(ctx context.Context) ([]domain.Document, error) {
	keys, err := r.store.Scan(ctx, docKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for i, fields := range rows {
		if len(fields) == 0 {
			// Key vanished between scan and fetch.
			continue
		}
		doc, err := parseHashFields(fields)
		if err != nil {
			return nil, fmt.Errorf("parse document %s: %w", keys[i], err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// hydrateRatings fills the rating aggregate on every candidate with one
// pipelined fetch of the rating hashes.
func (r *Repo) hydrateRatings(ctx context.Context, cands []filter.Candidate) error {
	if len(cands) == 0 {
		return nil
	}

	keys := make([]string, len(cands))
	for i := range cands {
		keys[i] = ratingsKey(cands[i].Doc.ID)
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	for i, ratings := range rows {
		var sum float64
		var count int
		for _, raw := range ratings {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			sum += v
			count++
		}
		cands[i].RatingCount = count
		if count > 0 {
			cands[i].AverageRating = sum / float64(count)
		}
	}
	return nil
}

// hydrateFavorites marks candidates that are in the user's favorite set.
func (r *Repo) hydrateFavorites(
	ctx context.Context, cands []filter.Candidate, userID string,
) error {
	members, err := r.store.SMembers(ctx, favoritesKey(userID))
	if err != nil {
		return fmt.Errorf("load favorites of %s: %w", userID, err)
	}

	favs := make(map[string]struct{}, len(members))
	for _, id := range members {
		favs[id] = struct{}{}
	}
	for i := range cands {
		_, cands[i].Favorited = favs[cands[i].Doc.ID]
	}
	return nil
}

// sortCandidates orders candidates by the store-level sort field, with the
// document ID as tiebreak so ordering is total.
func sortCandidates(cands []filter.Candidate, s usecase.Sort) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].Doc, cands[j].Doc
		switch s.Field {
		case usecase.FieldTitle:
			if a.Title != b.Title {
				if s.Desc {
					return a.Title > b.Title
				}
				return a.Title < b.Title
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				if s.Desc {
					return a.CreatedAt.After(b.CreatedAt)
				}
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}
