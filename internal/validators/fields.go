package validators

import (
	"context"
	"crypto/subtle"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/rules"
	"github.com/dmitrijs2005/lightningpass/internal/store"
	"github.com/go-playground/validator/v10"
)

const credentialsTable = "credentials"

// Existence is the part of the credential store the validators query.
type Existence interface {
	Exists(ctx context.Context, table, column string, value any, extra ...store.Cond) (bool, error)
}

// Field validates one unique credentials column.
type Field struct {
	column    string
	pattern   rules.Matcher
	invalid   error
	duplicate error
	store     Existence
}

// ValidPattern reports whether v fully matches the field pattern.
func (f *Field) ValidPattern(v string) bool {
	return f.pattern.MatchString(v)
}

// Pattern fails with the field's invalid-value error when v does not match.
func (f *Field) Pattern(v string) error {
	if !f.ValidPattern(v) {
		return f.invalid
	}
	return nil
}

// IsUnique reports whether the uniqueness check passes. With shouldExist
// false the value must be absent; with shouldExist true it must be present.
func (f *Field) IsUnique(ctx context.Context, v string, shouldExist bool) (bool, error) {
	exists, err := f.store.Exists(ctx, credentialsTable, f.column, v)
	if err != nil {
		return false, err
	}
	return exists == shouldExist, nil
}

// Unique fails with the field's already-exists error when shouldExist is
// false and v is taken, or with common.ErrAccountDoesNotExist when
// shouldExist is true and v is unknown.
func (f *Field) Unique(ctx context.Context, v string, shouldExist bool) error {
	return Run(ctx, f.UniqueCheck(v, shouldExist))
}

// PatternCheck is the Check form of Pattern.
func (f *Field) PatternCheck(v string) Check {
	return NewCheck(Static(f.ValidPattern(v)), f.invalid)
}

// UniqueCheck is the Check form of Unique.
func (f *Field) UniqueCheck(v string, shouldExist bool) Check {
	failure := f.duplicate
	if shouldExist {
		failure = common.ErrAccountDoesNotExist
	}
	return NewCheck(func(ctx context.Context) (bool, error) {
		return f.IsUnique(ctx, v, shouldExist)
	}, failure)
}

// Password validates login and master passwords.
type Password struct{}

// ValidPattern reports whether v satisfies the password rule.
func (Password) ValidPattern(v string) bool {
	return rules.Password.MatchString(v)
}

// Pattern fails with common.ErrInvalidPassword.
func (p Password) Pattern(v string) error {
	if !p.ValidPattern(v) {
		return common.ErrInvalidPassword
	}
	return nil
}

// Matches compares a and b in constant time.
func (Password) Matches(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Match fails with common.ErrPasswordsDoNotMatch.
func (p Password) Match(a, b string) error {
	if !p.Matches(a, b) {
		return common.ErrPasswordsDoNotMatch
	}
	return nil
}

// Authentic reports whether candidate matches the stored bcrypt hash.
func (Password) Authentic(candidate, hash string) bool {
	return cryptox.CheckPassword(hash, candidate)
}

// Authenticate fails with common.ErrAccountDoesNotExist.
func (p Password) Authenticate(candidate, hash string) error {
	if !p.Authentic(candidate, hash) {
		return common.ErrAccountDoesNotExist
	}
	return nil
}

func (p Password) PatternCheck(v string) Check {
	return NewCheck(Static(p.ValidPattern(v)), common.ErrInvalidPassword)
}

func (p Password) MatchCheck(a, b string) Check {
	return NewCheck(Static(p.Matches(a, b)), common.ErrPasswordsDoNotMatch)
}

// AuthenticateCheck defers the bcrypt comparison until the check runs.
func (p Password) AuthenticateCheck(candidate, hash string) Check {
	return NewCheck(func(context.Context) (bool, error) {
		return p.Authentic(candidate, hash), nil
	}, common.ErrAccountDoesNotExist)
}

// Validators groups the validators for every credentials field.
type Validators struct {
	Username *Field
	Email    *Field
	Password Password
}

// New returns validators that check uniqueness against s.
func New(s Existence) *Validators {
	return &Validators{
		Username: &Field{
			column:    "username",
			pattern:   rules.Username,
			invalid:   common.ErrInvalidUsername,
			duplicate: common.ErrUsernameAlreadyExists,
			store:     s,
		},
		Email: &Field{
			column:    "email",
			pattern:   emailMatcher{},
			invalid:   common.ErrInvalidEmail,
			duplicate: common.ErrEmailAlreadyExists,
			store:     s,
		},
	}
}

var validate = validator.New()

type emailMatcher struct{}

func (emailMatcher) MatchString(s string) bool {
	return ValidEmail(s)
}

// ValidEmail reports whether s is a structurally valid email address.
func ValidEmail(s string) bool {
	return validate.Var(s, rules.EmailTag) == nil
}
