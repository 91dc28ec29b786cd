package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// SQLite is the durable Directory. One file per deployment; the
	// database enforces the uniqueness invariants (email, session id,
	// reset token) so concurrent writers cannot violate them.
	SQLite struct {
		db *sql.DB
	}
)

func openUserDatabase(ctx context.Context, file string) (*sql.DB, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=true&mode=rwc", file)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping user database %v, cause %w", file, err)
	}
	return conn, nil
}

// OpenSQLite opens (creating if needed) the user database at the given
// path and ensures the users table exists.
func OpenSQLite(ctx context.Context, file string) (*SQLite, error) {
	conn, err := openUserDatabase(ctx, file)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init user database %v, cause %w", file, err)
	}
	return s, nil
}

func (s *SQLite) init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `create table if not exists users(
		user_id integer primary key autoincrement,
		email text not null unique,
		hashed_password blob not null,
		session_id text unique,
		reset_token text unique)`)
	return err
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) FindOne(ctx context.Context, f Filter) (User, error) {
	if !f.valid() {
		return User{}, UserNotFound{Filter: f}
	}
	var column, value string
	switch {
	case f.Email != "":
		column, value = "email", f.Email
	case f.SessionID != "":
		column, value = "session_id", f.SessionID
	case f.ResetToken != "":
		column, value = "reset_token", f.ResetToken
	}
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`select user_id, email, hashed_password, session_id, reset_token
		from users where %v = ?`, column), value)
	var u User
	var session, reset sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &session, &reset)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Filter: f}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user record, cause %w", err)
	}
	u.SessionID = session.String
	u.ResetToken = reset.String
	return u, nil
}

func (s *SQLite) Create(ctx context.Context, email string, hashedPassword []byte) (User, error) {
	res, err := s.db.ExecContext(ctx, `insert into users (email, hashed_password) values (?, ?)`,
		email, hashedPassword)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return User{}, EmailTaken{Email: email}
		}
		return User{}, fmt.Errorf("unable to create user %v, cause %w", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("unable to read id of created user, cause %w", err)
	}
	return User{ID: id, Email: email, HashedPassword: hashedPassword}, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, ch Changes) error {
	var sets []string
	var args []interface{}
	if ch.HashedPassword != nil {
		sets = append(sets, "hashed_password = ?")
		args = append(args, *ch.HashedPassword)
	}
	if ch.SessionID != nil {
		sets = append(sets, "session_id = ?")
		args = append(args, nullable(*ch.SessionID))
	}
	if ch.ResetToken != nil {
		sets = append(sets, "reset_token = ?")
		args = append(args, nullable(*ch.ResetToken))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`update users set %v where user_id = ?`,
		strings.Join(sets, ", ")), args...)
	if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", id, err)
	}
	return nil
}

// nullable keeps empty strings out of the unique session/reset columns,
// otherwise two logged-out users would collide on the empty string.
func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
