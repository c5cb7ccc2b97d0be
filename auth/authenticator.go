package auth

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterInput is the already-validated payload for account creation.
// The password arrives in cleartext and leaves this package only as a hash.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Auther wires the credential store and the token service into the two
// entry points the HTTP layer needs: login and register. Both return the
// account plus a freshly signed session token.
type Auther struct {
	repo       RepositoryManager
	tokens     TokenService
	logger     Logger
	bcryptCost int
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:       repo,
		tokens:     tokens,
		logger:     defLogger{},
		bcryptCost: DefaultPasswordCost,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithBcryptCost overrides the hashing cost. Tests dial it down.
func (s *Auther) WithBcryptCost(cost int) *Auther {
	s.bcryptCost = cost
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the credential pair and issues a session token. Unknown
// emails and wrong passwords produce the same ErrInvalidCredentials, and
// the password comparison runs even for unknown emails so the two cases
// are indistinguishable by timing as well as by message.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if UserNotFound(err) {
			ComparePasswordAndHash(password, dummyHash)
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("Login lookup error: %v", err)
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "login failed")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		return nil, "", err
	}

	return user, token, nil
}

// Register creates the account and logs it in, returning a session token
// alongside the stored record.
func (s *Auther) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	hash, err := HashPasswordCost(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	var user *User
	err = s.repo.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		user, err = s.repo.Users().RegisterTx(ctx, tx, &User{
			Email:        input.Email,
			PasswordHash: hash,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
		})
		return err
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Register token issue error: %v", err)
		return nil, "", err
	}

	return user, token, nil
}

// UserFromClaims reloads the account a verified token points at. Premium
// status and existence always come from the store, never from the claims,
// so deleted accounts and stale premium flags fail closed.
func (s *Auther) UserFromClaims(ctx context.Context, claims *SessionClaims) (*User, error) {
	id, err := claims.UserUUID()
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().FindByID(ctx, id)
	if err != nil {
		if UserNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("UserFromClaims lookup error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load session user")
	}

	return user, nil
}

// dummyHash is a bcrypt digest of a throwaway string, compared against when
// the email is unknown so login latency does not leak account existence.
var dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
