// Package roster parses the login workbook into user records and verifies
// candidate credentials against them.
//
// The roster mixes legacy plaintext rows with optionally bcrypt-hashed rows.
// Both paths live behind Verify so a future migration to hash-only storage
// touches this package alone.
package roster

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"gradepulse/pkg/contracts/domain"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords;
// callers cannot distinguish the two, which prevents user enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// legacyTeacherUsername is a grandfathered account that predates the role
// column and must keep resolving to the teacher role.
const legacyTeacherUsername = "srsma"

// bcryptHashPrefix is the structural prefix of a bcrypt hash ($2a$, $2b$,
// $2y$ variants all start with it).
const bcryptHashPrefix = "$2"

// Service reads the credential workbook on demand; nothing is cached, so
// edits to the workbook are visible on the next call.
type Service struct {
	loginFile string
	logger    *slog.Logger
}

// New creates a roster service reading from loginFile. A nil logger falls
// back to slog.Default.
func New(loginFile string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		loginFile: loginFile,
		logger:    logger.With(slog.String("component", "roster")),
	}
}

// LoadUsers parses the first sheet of the login workbook as header-keyed
// rows. Header matching is case-insensitive; rows without both a username
// and a password are dropped. A missing workbook yields an empty roster.
func (s *Service) LoadUsers(ctx context.Context) ([]domain.User, error) {
	f, err := excelize.OpenFile(s.loginFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "login workbook not found, roster is empty",
				slog.String("path", s.loginFile))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	// Column positions by lower-cased header; tolerates Username/username
	// and friends.
	columns := make(map[string]int)
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if key != "" {
			columns[key] = i
		}
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var users []domain.User
	for _, row := range rows[1:] {
		username := field(row, "username")
		password := field(row, "password")
		if username == "" || password == "" {
			continue
		}

		role := domain.Role(strings.ToLower(field(row, "role")))
		if role == "" {
			role = inferRole(username)
		}

		users = append(users, domain.User{
			Username: username,
			Password: password,
			Role:     role,
		})
	}

	return users, nil
}

// inferRole is the fallback for rows that predate the role column.
func inferRole(username string) domain.Role {
	u := strings.ToLower(username)
	switch {
	case u == legacyTeacherUsername:
		return domain.RoleTeacher
	case strings.Contains(u, "admin"):
		return domain.RoleAdmin
	case strings.Contains(u, "teacher"):
		return domain.RoleTeacher
	default:
		return domain.RoleStudent
	}
}

// Verify checks a candidate username/password pair against the roster.
// Username matching is case-insensitive. A stored value with the bcrypt
// structural prefix is verified as a hash; anything else is compared as
// plain text, so a hash-shaped password can never match via equality.
func (s *Service) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if !strings.EqualFold(users[i].Username, username) {
			continue
		}
		if !verifyPassword(users[i].Password, password) {
			return nil, ErrInvalidCredentials
		}
		user := users[i]
		user.Password = ""
		return &user, nil
	}

	return nil, ErrInvalidCredentials
}

func verifyPassword(stored, candidate string) bool {
	if strings.HasPrefix(stored, bcryptHashPrefix) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored == candidate
}
