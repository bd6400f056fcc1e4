package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/mq"
	"github.com/septivank/energy-insights/internal/repository"
)

// memStore is an in-memory DeviceStore, BillStore, ProfileStore and ScanStore.
type memStore struct {
	mu        sync.Mutex
	devices   []db.Device
	bills     []db.Bill
	analyses  []db.DeviceAnalysis
	profiles  map[uuid.UUID]db.HouseholdProfile
	listCalls int
	failList  error
	failWrite error
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[uuid.UUID]db.HouseholdProfile{},
		clock:    time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *memStore) CreateDevice(ctx context.Context, d *db.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	d.ID = uuid.New()
	d.CreatedAt = s.tick()
	d.UpdatedAt = d.CreatedAt
	s.devices = append(s.devices, *d)
	return nil
}

func (s *memStore) ListActiveDevices(ctx context.Context, userID uuid.UUID) ([]db.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failList != nil {
		return nil, s.failList
	}
	out := []db.Device{}
	for i := len(s.devices) - 1; i >= 0; i-- {
		if d := s.devices[i]; d.UserID == userID && d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.ID == deviceID && d.UserID == userID {
			found := d
			return &found, nil
		}
	}
	return nil, fmt.Errorf("device: %w", repository.ErrNotFound)
}

func (s *memStore) UpdateDevice(ctx context.Context, userID, deviceID uuid.UUID, upd db.DeviceUpdate) (*db.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.devices {
		if d.ID != deviceID || d.UserID != userID {
			continue
		}
		if upd.Name != nil {
			d.Name = *upd.Name
		}
		if upd.ClearLocation {
			d.Location = nil
		} else if upd.Location != nil {
			d.Location = upd.Location
		}
		if upd.IsActive != nil {
			d.IsActive = *upd.IsActive
		}
		s.devices[i] = d
		return &d, nil
	}
	return nil, fmt.Errorf("device: %w", repository.ErrNotFound)
}

func (s *memStore) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	inactive := false
	_, err := s.UpdateDevice(ctx, userID, deviceID, db.DeviceUpdate{IsActive: &inactive})
	return err
}

func (s *memStore) GetDeviceAnalysis(ctx context.Context, userID, analysisID uuid.UUID) (*db.DeviceAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.analyses {
		if a.ID == analysisID && a.UserID == userID {
			found := a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("device analysis: %w", repository.ErrNotFound)
}

func (s *memStore) ListBills(ctx context.Context, userID uuid.UUID) ([]db.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []db.Bill{}
	for i := len(s.bills) - 1; i >= 0; i-- {
		if s.bills[i].UserID == userID {
			out = append(out, s.bills[i])
		}
	}
	return out, nil
}

func (s *memStore) GetBill(ctx context.Context, userID, billID uuid.UUID) (*db.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bills {
		if b.ID == billID && b.UserID == userID {
			found := b
			return &found, nil
		}
	}
	return nil, fmt.Errorf("bill: %w", repository.ErrNotFound)
}

func (s *memStore) GetHouseholdProfile(ctx context.Context, userID uuid.UUID) (*db.HouseholdProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) UpsertHouseholdProfile(ctx context.Context, p *db.HouseholdProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = *p
	return nil
}

func (s *memStore) InsertBill(ctx context.Context, b *db.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	b.ID = uuid.New()
	b.CreatedAt = s.tick()
	s.bills = append(s.bills, *b)
	return nil
}

func (s *memStore) InsertDeviceAnalysis(ctx context.Context, a *db.DeviceAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	a.ID = uuid.New()
	a.CreatedAt = s.tick()
	s.analyses = append(s.analyses, *a)
	return nil
}

// memCache stores JSON like Redis would.
type memCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
	failGet       bool
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func cacheKey(view string, userID uuid.UUID) string {
	return view + ":" + userID.String()
}

func (c *memCache) Get(ctx context.Context, view string, userID uuid.UUID, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("connection refused")
	}
	raw, ok := c.entries[cacheKey(view, userID)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(ctx context.Context, view string, userID uuid.UUID, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[cacheKey(view, userID)] = raw
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	for k := range c.entries {
		if len(k) > 36 && k[len(k)-36:] == userID.String() {
			delete(c.entries, k)
		}
	}
	return nil
}

type recordingPublisher struct {
	events []mq.InsightsRefreshedEvent
	err    error
}

func (p *recordingPublisher) PublishInsightsRefreshed(ctx context.Context, event mq.InsightsRefreshedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
