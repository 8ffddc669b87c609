package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"recycling-rewards-backend/models"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory Store for service tests. Atomic snapshots the state
// and restores it when fn fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *memState
	seq  int

	// fail maps an operation name such as "activities.create" to the error it returns.
	fail map[string]error
	// collisions makes the next n voucher inserts report a taken code.
	collisions int
}

type memState struct {
	users           map[string]models.User
	points          map[string]models.RewardPoints
	materials       map[string]models.RecyclableMaterial
	centers         map[string]models.RecyclingCenter
	centerMaterials map[string][]string
	activities      []models.RecyclingActivity
	voucherTypes    map[string]models.VoucherType
	vouchers        map[string]models.Voucher
	content         map[string]models.EducationalContent
}

func newMemStore() *memStore {
	return &memStore{
		st: &memState{
			users:           map[string]models.User{},
			points:          map[string]models.RewardPoints{},
			materials:       map[string]models.RecyclableMaterial{},
			centers:         map[string]models.RecyclingCenter{},
			centerMaterials: map[string][]string{},
			voucherTypes:    map[string]models.VoucherType{},
			vouchers:        map[string]models.Voucher{},
			content:         map[string]models.EducationalContent{},
		},
		fail: map[string]error{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *memState) clone() *memState {
	cm := make(map[string][]string, len(st.centerMaterials))
	for k, v := range st.centerMaterials {
		cm[k] = append([]string(nil), v...)
	}
	return &memState{
		users:           cloneMap(st.users),
		points:          cloneMap(st.points),
		materials:       cloneMap(st.materials),
		centers:         cloneMap(st.centers),
		centerMaterials: cm,
		activities:      append([]models.RecyclingActivity(nil), st.activities...),
		voucherTypes:    cloneMap(st.voucherTypes),
		vouchers:        cloneMap(st.vouchers),
		content:         cloneMap(st.content),
	}
}

func (s *memStore) failure(op string) error {
	return s.fail[op]
}

// tick hands out strictly increasing creation times.
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func (s *memStore) Users() UserRepository               { return memUsers{s} }
func (s *memStore) Points() PointsRepository            { return memPoints{s} }
func (s *memStore) Materials() MaterialRepository       { return memMaterials{s} }
func (s *memStore) Centers() CenterRepository           { return memCenters{s} }
func (s *memStore) Activities() ActivityRepository      { return memActivities{s} }
func (s *memStore) VoucherTypes() VoucherTypeRepository { return memVoucherTypes{s} }
func (s *memStore) Vouchers() VoucherRepository         { return memVouchers{s} }
func (s *memStore) Content() ContentRepository          { return memContent{s} }

func (s *memStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(memTx{s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// memTx is the store handed to Atomic callbacks; nested Atomic joins the outer one.
type memTx struct {
	*memStore
}

func (t memTx) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrConflict
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.tick()
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.find"); err != nil {
		return nil, false, err
	}
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (r memUsers) UpdateRole(_ context.Context, id string, role models.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return false, nil
	}
	u.Role = role
	r.s.st.users[id] = u
	return true, nil
}

func (r memUsers) ListStandings(_ context.Context, county string) ([]models.Standing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		if county != "" && !strings.EqualFold(u.County, county) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	out := make([]models.Standing, 0, len(users))
	for _, u := range users {
		out = append(out, models.Standing{
			UserID:   u.ID,
			Username: u.Username,
			County:   u.County,
			City:     u.City,
			Role:     u.Role,
			Points:   r.s.st.points[u.ID].TotalPoints,
		})
	}
	return out, nil
}

func (r memUsers) ListInactiveSince(_ context.Context, since time.Time) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.st.users {
		if u.Role != models.RoleUser || !u.CreatedAt.Before(since) {
			continue
		}
		active := false
		for _, a := range r.s.st.activities {
			if a.UserID == u.ID && !a.CreatedAt.Before(since) {
				active = true
				break
			}
		}
		if !active {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- points ---

type memPoints struct{ s *memStore }

func (r memPoints) Add(_ context.Context, userID string, delta int64, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("points.add"); err != nil {
		return 0, err
	}
	rp := r.s.st.points[userID]
	rp.UserID = userID
	rp.TotalPoints += delta
	rp.LastUpdated = at
	r.s.st.points[userID] = rp
	return rp.TotalPoints, nil
}

func (r memPoints) Get(_ context.Context, userID string) (*models.RewardPoints, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rp, ok := r.s.st.points[userID]
	if !ok {
		return nil, false, nil
	}
	return &rp, true, nil
}

func (r memPoints) Reset(_ context.Context, userIDs []string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("points.reset"); err != nil {
		return err
	}
	for _, id := range userIDs {
		if rp, ok := r.s.st.points[id]; ok {
			rp.TotalPoints = 0
			rp.LastUpdated = at
			r.s.st.points[id] = rp
		}
	}
	return nil
}

func (r memPoints) ListNonZeroUserIDs(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, rp := range r.s.st.points {
		if rp.TotalPoints > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// --- materials ---

type memMaterials struct{ s *memStore }

func (r memMaterials) Create(_ context.Context, m *models.RecyclableMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.materials {
		if strings.EqualFold(existing.Name, m.Name) {
			return ErrConflict
		}
	}
	r.s.st.materials[m.ID] = *m
	return nil
}

func (r memMaterials) Update(_ context.Context, m *models.RecyclableMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.st.materials {
		if id != m.ID && strings.EqualFold(existing.Name, m.Name) {
			return ErrConflict
		}
	}
	r.s.st.materials[m.ID] = *m
	return nil
}

func (r memMaterials) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.materials[id]
	delete(r.s.st.materials, id)
	return ok, nil
}

func (r memMaterials) FindByID(_ context.Context, id string) (*models.RecyclableMaterial, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.materials[id]
	if !ok {
		return nil, false, nil
	}
	return &m, true, nil
}

func (r memMaterials) FindByName(_ context.Context, name string) (*models.RecyclableMaterial, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.st.materials {
		if strings.EqualFold(m.Name, name) {
			return &m, true, nil
		}
	}
	return nil, false, nil
}

func (r memMaterials) List(_ context.Context) ([]models.RecyclableMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.RecyclableMaterial, 0, len(r.s.st.materials))
	for _, m := range r.s.st.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- centers ---

type memCenters struct{ s *memStore }

func (r memCenters) Create(_ context.Context, c *models.RecyclingCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *c
	stored.AcceptedMaterials = nil
	r.s.st.centers[c.ID] = stored
	return nil
}

func (r memCenters) Update(ctx context.Context, c *models.RecyclingCenter) error {
	return r.Create(ctx, c)
}

func (r memCenters) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.centers[id]
	delete(r.s.st.centers, id)
	delete(r.s.st.centerMaterials, id)
	return ok, nil
}

func (r memCenters) load(id string) models.RecyclingCenter {
	c := r.s.st.centers[id]
	c.AcceptedMaterials = nil
	for _, mid := range r.s.st.centerMaterials[id] {
		c.AcceptedMaterials = append(c.AcceptedMaterials, r.s.st.materials[mid])
	}
	return c
}

func (r memCenters) FindByID(_ context.Context, id string) (*models.RecyclingCenter, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.centers[id]; !ok {
		return nil, false, nil
	}
	c := r.load(id)
	return &c, true, nil
}

func (r memCenters) List(_ context.Context, county string, offset, limit int) ([]models.RecyclingCenter, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.RecyclingCenter
	for id, c := range r.s.st.centers {
		if county != "" && !strings.EqualFold(c.County, county) {
			continue
		}
		all = append(all, r.load(id))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, offset, limit), int64(len(all)), nil
}

func (r memCenters) ReplaceMaterials(_ context.Context, centerID string, materialIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("centers.materials"); err != nil {
		return err
	}
	r.s.st.centerMaterials[centerID] = append([]string(nil), materialIDs...)
	return nil
}

// --- activities ---

type memActivities struct{ s *memStore }

func (r memActivities) Create(_ context.Context, a *models.RecyclingActivity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("activities.create"); err != nil {
		return err
	}
	r.s.st.activities = append(r.s.st.activities, *a)
	return nil
}

func (r memActivities) ListByUser(_ context.Context, userID string, offset, limit int) ([]models.RecyclingActivity, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var mine []models.RecyclingActivity
	for i := len(r.s.st.activities) - 1; i >= 0; i-- {
		if a := r.s.st.activities[i]; a.UserID == userID {
			mine = append(mine, a)
		}
	}
	return window(mine, offset, limit), int64(len(mine)), nil
}

// --- voucher types ---

type memVoucherTypes struct{ s *memStore }

func (r memVoucherTypes) Create(_ context.Context, vt *models.VoucherType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.voucherTypes {
		if existing.ThresholdPoints == vt.ThresholdPoints {
			return ErrConflict
		}
	}
	r.s.st.voucherTypes[vt.ID] = *vt
	return nil
}

func (r memVoucherTypes) FindAll(_ context.Context) ([]models.VoucherType, error) {
	return r.between(0, 1<<62), nil
}

func (r memVoucherTypes) FindByThresholdBetween(_ context.Context, low, high int64) ([]models.VoucherType, error) {
	if err := r.s.failure("voucherTypes.between"); err != nil {
		return nil, err
	}
	return r.between(low, high), nil
}

func (r memVoucherTypes) between(low, high int64) []models.VoucherType {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.VoucherType
	for _, vt := range r.s.st.voucherTypes {
		if vt.ThresholdPoints > low && vt.ThresholdPoints <= high {
			out = append(out, vt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ThresholdPoints < out[j].ThresholdPoints })
	return out
}

// --- vouchers ---

type memVouchers struct{ s *memStore }

func (r memVouchers) Insert(_ context.Context, v *models.Voucher) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("vouchers.insert"); err != nil {
		return false, err
	}
	if r.s.collisions > 0 {
		r.s.collisions--
		return false, nil
	}
	for _, existing := range r.s.st.vouchers {
		if existing.UniqueCode == v.UniqueCode {
			return false, nil
		}
	}
	stored := *v
	stored.VoucherType = nil
	r.s.st.vouchers[v.ID] = stored
	return true, nil
}

func (r memVouchers) withType(v models.Voucher) *models.Voucher {
	if vt, ok := r.s.st.voucherTypes[v.VoucherTypeID]; ok {
		v.VoucherType = &vt
	}
	return &v
}

func (r memVouchers) FindByCode(_ context.Context, code string) (*models.Voucher, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.st.vouchers {
		if v.UniqueCode == code {
			return r.withType(v), true, nil
		}
	}
	return nil, false, nil
}

func (r memVouchers) MarkRedeemed(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.st.vouchers[id]
	if !ok || v.Redeemed {
		return false, nil
	}
	v.Redeemed = true
	v.RedeemedAt = &at
	r.s.st.vouchers[id] = v
	return true, nil
}

func (r memVouchers) CountUnretrieved(_ context.Context, userID string, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.st.vouchers {
		if v.UserID == userID && !v.Redeemed && v.ExpiresAt.Before(now) {
			n++
		}
	}
	return n, nil
}

func (r memVouchers) Search(_ context.Context, f VoucherFilter) ([]models.Voucher, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Voucher
	for _, v := range r.s.st.vouchers {
		if f.UserID != "" && v.UserID != f.UserID {
			continue
		}
		if f.Code != "" && !strings.Contains(strings.ToLower(v.UniqueCode), strings.ToLower(f.Code)) {
			continue
		}
		if f.Redeemed != nil && v.Redeemed != *f.Redeemed {
			continue
		}
		if f.Expired != nil && v.ExpiresAt.Before(f.Now) != *f.Expired {
			continue
		}
		out = append(out, *r.withType(v))
	}

	key := func(v models.Voucher) string {
		switch f.SortColumn {
		case "expires_at":
			return v.ExpiresAt.Format(time.RFC3339Nano)
		case "redeemed_at":
			if v.RedeemedAt == nil {
				return ""
			}
			return v.RedeemedAt.Format(time.RFC3339Nano)
		case "unique_code":
			return v.UniqueCode
		}
		return v.CreatedAt.Format(time.RFC3339Nano)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Desc {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return window(out, f.Offset, f.Limit), int64(len(out)), nil
}

// --- content ---

type memContent struct{ s *memStore }

func (r memContent) Create(_ context.Context, c *models.EducationalContent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.content {
		if existing.Slug == c.Slug {
			return ErrConflict
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.tick()
	}
	r.s.st.content[c.ID] = *c
	return nil
}

func (r memContent) Update(_ context.Context, c *models.EducationalContent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.content[c.ID] = *c
	return nil
}

func (r memContent) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.content[id]
	delete(r.s.st.content, id)
	return ok, nil
}

func (r memContent) FindBySlug(_ context.Context, slug string) (*models.EducationalContent, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.content {
		if c.Slug == slug {
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (r memContent) SlugsWithPrefix(_ context.Context, base string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, c := range r.s.st.content {
		if c.Slug == base || strings.HasPrefix(c.Slug, base+"-") {
			out = append(out, c.Slug)
		}
	}
	return out, nil
}

func (r memContent) List(_ context.Context, f ContentFilter) ([]models.EducationalContent, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.EducationalContent
	for _, c := range r.s.st.content {
		if f.Query != "" && !strings.Contains(c.SearchText, f.Query) {
			continue
		}
		if f.Kind != "" && c.Kind != f.Kind {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, f.Offset, f.Limit), int64(len(out)), nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
