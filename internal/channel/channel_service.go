package channel

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"channelmaster/internal/youtube"
)

// RecordStore is the subset of *Store the service needs.
type RecordStore interface {
	FetchChannel(ctx context.Context, channelID string) (*ChannelRecord, error)
	UpsertChannel(ctx context.Context, record *ChannelRecord) error
}

// MetadataFetcher is satisfied by *youtube.Client.
type MetadataFetcher interface {
	FetchChannelInfo(ctx context.Context, channelID string) (*youtube.ChannelInfo, error)
}

// SaveNotifier is told about every successful save. Failures are logged only.
type SaveNotifier interface {
	NotifySaved(ctx context.Context, record *ChannelRecord, created bool) error
}

const maxChannelIDLen = 64

var channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateChannelID trims and checks a channel id typed by the operator.
func ValidateChannelID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyChannelID
	}
	if len(id) > maxChannelIDLen || !channelIDRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannelID, id)
	}
	return id, nil
}

type Service struct {
	store    RecordStore
	fetcher  MetadataFetcher
	notifier SaveNotifier // optional
	policy   DateCreatedPolicy
}

func NewService(store RecordStore, fetcher MetadataFetcher, notifier SaveNotifier, policy DateCreatedPolicy) *Service {
	if policy == "" {
		policy = DateCreatedFromFetch
	}
	return &Service{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		policy:   policy,
	}
}

// Policy returns the date_created policy saves are reconciled with.
func (s *Service) Policy() DateCreatedPolicy {
	return s.policy
}

// LookupResult is the outcome of one lookup; it becomes the session context.
type LookupResult struct {
	ChannelID   string
	Record      *ChannelRecord       // nil: no stored row
	Metadata    *youtube.ChannelInfo // nil: not refreshed or refresh failed
	Refreshed   bool
	MetadataErr error // non-fatal
}

// SessionContext converts the result into what the handler keeps per operator.
func (r *LookupResult) SessionContext() *SessionContext {
	sc := &SessionContext{
		ChannelID: r.ChannelID,
		Record:    r.Record,
		Metadata:  r.Metadata,
		Refreshed: r.Refreshed,
	}
	if r.MetadataErr != nil {
		sc.MetadataErr = r.MetadataErr.Error()
	}
	return sc
}

// Lookup reads the stored row and, when refresh is set, the YouTube overlay.
// A store failure aborts the lookup; a metadata failure is reported on the
// result and leaves Metadata nil.
func (s *Service) Lookup(ctx context.Context, channelID string, refresh bool) (*LookupResult, error) {
	// 1. Validate
	id, err := ValidateChannelID(channelID)
	if err != nil {
		return nil, err
	}

	// 2. Stored row
	record, err := s.store.FetchChannel(ctx, id)
	if err != nil {
		log.Errorf("Lookup: FetchChannel failed (channel_id=%s): %v", id, err)
		return nil, err
	}

	result := &LookupResult{ChannelID: id, Record: record, Refreshed: refresh}
	if !refresh {
		return result, nil
	}

	// 3. Metadata overlay (non-fatal)
	if s.fetcher == nil {
		result.MetadataErr = youtube.ErrMissingAPIKey
		return result, nil
	}
	info, err := s.fetcher.FetchChannelInfo(ctx, id)
	if err != nil {
		log.Warnf("Lookup: YouTube refresh failed (channel_id=%s): %v", id, err)
		result.MetadataErr = err
		return result, nil
	}
	result.Metadata = info

	return result, nil
}

// Save reconciles the form against the session context, upserts the row and
// returns it as re-read from the store.
func (s *Service) Save(ctx context.Context, sc *SessionContext, form ChannelForm) (*ChannelRecord, error) {
	if !sc.LookedUp() {
		return nil, ErrNoLookup
	}

	// 1. Reconcile
	record, err := Reconcile(ReconcileInput{
		ChannelID: sc.ChannelID,
		Stored:    sc.Record,
		Fetched:   sc.Metadata,
		Form:      form,
		Policy:    s.policy,
	})
	if err != nil {
		return nil, err
	}

	// 2. Upsert
	if err := s.store.UpsertChannel(ctx, record); err != nil {
		log.Errorf("Save: UpsertChannel failed (channel_id=%s): %v", record.ChannelID, err)
		return nil, err
	}
	log.Infof("Channel saved (channel_id=%s, updated_by=%s)", record.ChannelID, derefString(record.UpdatedBy))

	// 3. Confirm
	saved, err := s.store.FetchChannel(ctx, record.ChannelID)
	if err != nil {
		log.Errorf("Save: re-query failed (channel_id=%s): %v", record.ChannelID, err)
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: row %s missing after upsert", ErrStoreUnavailable, record.ChannelID)
	}

	// 4. Notify (non-fatal)
	if s.notifier != nil {
		if err := s.notifier.NotifySaved(ctx, saved, sc.Record == nil); err != nil {
			log.Warnf("Save: notification failed (channel_id=%s): %v", saved.ChannelID, err)
		}
	}

	return saved, nil
}
