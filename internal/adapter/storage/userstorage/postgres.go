package userstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage/pgutil"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/auth"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, u *auth.User) error {
	q := sqlf.InsertInto("users").
		Set("user_id", u.UserID).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("created_at", u.CreatedAt).
		Set("updated_at", u.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.IsConstraintViolation(err) {
			return errors.Join(fmt.Errorf("user exists: %w", err), auth.ErrUserExists)
		}
		return storage.InternalError(err)
	}

	for _, a := range u.Authorizations {
		if err := s.addAuth(ctx, u.UserID, a); err != nil {
			return err
		}
	}

	s.base.MarkSeen(u.UserID, u)

	return nil
}

func (s *PostgresStorage) addAuth(ctx context.Context, userId string, a *auth.Authorization) error {
	addAuth := sqlf.InsertInto("authorizations").
		Set("authorization_id", a.ID).
		Set("secret", a.Secret).
		Set("logout_at", a.LogoutAt).
		Set("created_at", a.CreatedAt).
		Set("valid_until", a.ValidUntil).
		Set("user_id", userId)

	addDevice := sqlf.InsertInto("devices").
		Set("authorization_id", a.ID).
		Set("os", a.Device.OS).
		Set("device_model", a.Device.Model).
		Set("ip_address", a.Device.IPAddress).
		Set("browser", a.Device.Browser)

	if _, err := addAuth.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.IsConstraintViolation(err) {
			return auth.ErrAuthorizationExists
		}
		return storage.InternalError(err)
	}

	if _, err := addDevice.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.IsConstraintViolation(err) {
			return auth.ErrDeviceExists
		}
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	whereClause string,
	whereArgs ...any,
) ([]*auth.User, error) {
	var tmp userWithAuthRow

	q := sqlf.From("users u").
		LeftJoin("authorizations a", "u.user_id = a.user_id").
		LeftJoin("devices d", "d.authorization_id = a.authorization_id").
		Where(whereClause, whereArgs...).
		Select("u.user_id").To(&tmp.UserID).
		Select("u.email").To(&tmp.Email).
		Select("u.password_hash").To(&tmp.PasswordHash).
		Select("u.created_at").To(&tmp.CreatedAt).
		Select("u.updated_at").To(&tmp.UpdatedAt).
		Select("a.authorization_id").To(&tmp.AuthorizationID).
		Select("a.secret").To(&tmp.Secret).
		Select("a.valid_until").To(&tmp.AuthValidUntil).
		Select("a.logout_at").To(&tmp.LogoutAt).
		Select("a.created_at").To(&tmp.AuthCreatedAt).
		Select("d.os").To(&tmp.OS).
		Select("d.browser").To(&tmp.Browser).
		Select("d.device_model").To(&tmp.Model).
		Select("d.ip_address").To(&tmp.IpAddress)

	var fetchedRows []userWithAuthRow

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		fetchedRows = append(fetchedRows, tmp)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storage.InternalError(err)
	}

	return rowsToDomain(fetchedRows), nil
}

func (s *PostgresStorage) getOne(ctx context.Context, whereClause string, whereArgs ...any) (*auth.User, error) {
	users, err := s.get(ctx, whereClause, whereArgs...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, auth.ErrUserNotFound
	}
	s.base.MarkSeen(users[0].UserID, users[0])
	return users[0], nil
}

func (s *PostgresStorage) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.getOne(ctx, "u.email = ?", email)
}

func (s *PostgresStorage) GetByID(ctx context.Context, userId string) (*auth.User, error) {
	return s.getOne(ctx, "u.user_id = ?", userId)
}

func (s *PostgresStorage) GetByAuthSecret(ctx context.Context, secret string) (*auth.User, error) {
	return s.getOne(ctx, "a.secret = ?", secret)
}

// Persist writes back the difference between the stored state and the
// given aggregate: changed user columns, new authorizations, changed
// authorization/device columns.
func (s *PostgresStorage) Persist(ctx context.Context, u *auth.User) error {
	dbState, err := s.GetByID(ctx, u.UserID)
	if err != nil {
		return err
	}

	if log, _ := diff.Diff(dbState, u); len(log) != 0 {
		q := sqlf.Update("users").Where("user_id = ?", u.UserID)
		q = pgutil.MakeUpdateQuery(q, log)

		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, auth.ErrUserNotFound); err != nil {
			return err
		}
	}

	dbAuthSet := make(map[string]*auth.Authorization)
	for _, a := range dbState.Authorizations {
		dbAuthSet[a.ID] = a
	}

	for _, a := range u.Authorizations {
		if _, ok := dbAuthSet[a.ID]; !ok {
			if err := s.addAuth(ctx, u.UserID, a); err != nil {
				return err
			}
		} else {
			if err := s.persistAuth(ctx, dbAuthSet[a.ID], a); err != nil {
				return err
			}
		}
	}

	s.base.MarkSeen(u.UserID, u)

	return nil
}

func (s *PostgresStorage) persistAuth(ctx context.Context, source, changed *auth.Authorization) error {
	log, _ := diff.Diff(source, changed)
	if len(log) == 0 {
		return s.persistDevice(ctx, source.ID, &source.Device, &changed.Device)
	}
	q := sqlf.Update("authorizations").Where("authorization_id = ?", source.ID)
	q = pgutil.MakeUpdateQuery(q, log)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return s.persistDevice(ctx, source.ID, &source.Device, &changed.Device)
}

func (s *PostgresStorage) persistDevice(ctx context.Context, id string, source, changed *auth.Device) error {
	log, _ := diff.Diff(source, changed)
	if len(log) == 0 {
		return nil
	}

	q := sqlf.Update("devices").Where("authorization_id = ?", id)
	q = pgutil.MakeUpdateQuery(q, log)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type userWithAuthRow struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	AuthorizationID *string
	Secret          *string
	LogoutAt        *time.Time
	AuthCreatedAt   *time.Time
	AuthValidUntil  *time.Time

	IpAddress *string
	Browser   *string
	OS        *string
	Model     *string
}

func rowsToDomain(rows []userWithAuthRow) []*auth.User {
	usersMap := make(map[string]*auth.User)
	users := make([]*auth.User, 0, 1)

	for _, row := range rows {
		if _, ok := usersMap[row.UserID]; !ok {
			u := &auth.User{
				UserID:         row.UserID,
				Email:          row.Email,
				PasswordHash:   row.PasswordHash,
				CreatedAt:      row.CreatedAt,
				UpdatedAt:      row.UpdatedAt,
				Authorizations: make([]*auth.Authorization, 0),
			}
			usersMap[row.UserID] = u
			users = append(users, u)
		}
		if row.AuthorizationID != nil {
			a := &auth.Authorization{
				ID:         *row.AuthorizationID,
				Secret:     *row.Secret,
				CreatedAt:  *row.AuthCreatedAt,
				ValidUntil: *row.AuthValidUntil,
				LogoutAt:   row.LogoutAt,
			}
			if row.Browser != nil {
				a.Device = auth.Device{
					Browser:   *row.Browser,
					OS:        *row.OS,
					IPAddress: *row.IpAddress,
					Model:     *row.Model,
				}
			}
			usersMap[row.UserID].Authorizations = append(usersMap[row.UserID].Authorizations, a)
		}
	}

	return users
}
