package admin

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"tranquility/internal/domain"
	"tranquility/internal/modules/auth"
	"tranquility/internal/repository"
)

const recentBookings = 10

type Service struct {
	users    UserRepository
	bookings BookingCounter
	stats    StatsRepository
	hashCost int
	now      func() time.Time
}

func NewService(users UserRepository, bookings BookingCounter, stats StatsRepository) *Service {
	return &Service{
		users:    users,
		bookings: bookings,
		stats:    stats,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// -------------------- Users --------------------

func (s *Service) ListUsers(ctx context.Context, q UserQuery) (*UserList, error) {
	f := repository.UserFilter{Search: q.Search, Page: repository.Page{Page: q.Page, Limit: q.Limit}}
	if q.Role != "" {
		role, err := domain.ParseUserRole(q.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		f.Role = role
	}

	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &UserList{Items: make([]auth.UserPublic, 0, len(users)), Total: total, Page: q.Page, Limit: q.Limit}
	for i := range users {
		out.Items = append(out.Items, auth.ToPublic(&users[i]))
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = 20
	}
	return out, nil
}

// CreateUser opens an account of any role, typically for front desk staff.
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, req CreateUserRequest) (*auth.UserPublic, error) {
	role, err := domain.ParseUserRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	hash, err := auth.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("role", string(role)).Int64("actor_id", actor.UserID).Msg("user created")
	pub := auth.ToPublic(u)
	return &pub, nil
}

func (s *Service) loadLive(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsDeleted {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor domain.Actor, id int64, req UpdateUserRequest) (*auth.UserPublic, error) {
	u, err := s.loadLive(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		role, err := domain.ParseUserRole(*req.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		if id == actor.UserID && role != u.Role {
			return nil, ErrChangeOwnRole
		}
		u.Role = role
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	pub := auth.ToPublic(u)
	return &pub, nil
}

// DeleteUser soft deletes the account. Users holding PENDING or CONFIRMED
// bookings must have them cancelled first.
func (s *Service) DeleteUser(ctx context.Context, actor domain.Actor, id int64) error {
	if id == actor.UserID {
		return ErrDeleteSelf
	}
	if _, err := s.loadLive(ctx, id); err != nil {
		return err
	}

	active, err := s.bookings.CountActiveForUser(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrUserHasBooking
	}

	if err := s.users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	log.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user deleted")
	return nil
}

// -------------------- Dashboard --------------------

// Dashboard gathers today's front desk figures. The aggregates are
// independent queries and run concurrently.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	today := domain.DateOnly(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	d := &Dashboard{GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Rooms, err = s.stats.RoomCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Guests, err = s.stats.CountUsers(gctx, domain.RoleGuest)
		return err
	})
	g.Go(func() (err error) {
		d.BookingsByStatus, err = s.stats.BookingsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.ArrivalsToday, err = s.stats.Arrivals(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.DeparturesToday, err = s.stats.Departures(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.OccupiedToday, err = s.stats.OccupiedRooms(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.RevenueMonth, err = s.stats.Revenue(gctx, monthStart, monthEnd)
		return err
	})
	g.Go(func() (err error) {
		d.RecentBookings, err = s.stats.RecentBookings(gctx, recentBookings)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if d.Rooms.Active > 0 {
		d.OccupancyRate = math.Round(float64(d.OccupiedToday)/float64(d.Rooms.Active)*1000) / 10
	}
	if d.RecentBookings == nil {
		d.RecentBookings = []domain.Booking{}
	}
	return d, nil
}
