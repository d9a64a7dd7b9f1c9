package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/cryptox"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/users"
)

// HandleGenerator produces placeholder emails for federated accounts that
// arrive without one.
type HandleGenerator interface {
	Generate(prefix string) string
}

const handlePrefix = "user"

// maxHandleAttempts bounds how many placeholder emails are drawn for one
// account when earlier draws are already taken.
const maxHandleAttempts = 3

type Resolver struct {
	users   users.Repository
	hasher  cryptox.Hasher
	handles HandleGenerator
	log     logging.Logger

	// digest of a random secret, verified against when there is no real
	// digest so unknown emails cost the same as wrong passwords
	dummyDigest string
}

func NewResolver(repo users.Repository, hasher cryptox.Hasher, handles HandleGenerator, log logging.Logger) (*Resolver, error) {
	secret, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHashingFailure, err)
	}
	dummy, err := hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		users:       repo,
		hasher:      hasher,
		handles:     handles,
		log:         log.With("module", "identity"),
		dummyDigest: dummy,
	}, nil
}

// Resolve returns the canonical user for proof.
func (r *Resolver) Resolve(ctx context.Context, proof Proof) (*models.User, error) {
	switch p := proof.(type) {
	case LocalCredentials:
		return r.ResolveLocal(ctx, p)
	case FederatedProfile:
		return r.ResolveFederated(ctx, p)
	default:
		return nil, fmt.Errorf("unsupported proof %T", proof)
	}
}

// ResolveLocal authenticates an existing account. Unknown emails, wrong
// passwords and federated-only accounts all yield
// common.ErrAuthenticationFailure.
func (r *Resolver) ResolveLocal(ctx context.Context, creds LocalCredentials) (*models.User, error) {
	user, err := r.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.burnVerify(creds.Password)
			return nil, common.ErrAuthenticationFailure
		}
		return nil, storeFailure(err)
	}

	if user.IsFederatedOnly() {
		r.burnVerify(creds.Password)
		return nil, common.ErrAuthenticationFailure
	}

	ok, err := r.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrAuthenticationFailure
	}

	return user, nil
}

func (r *Resolver) burnVerify(password string) {
	_, _ = r.hasher.Verify(password, r.dummyDigest)
}

// ResolveFederated finds the account a provider profile belongs to, creating
// it on first sight. Concurrent first sightings race at the store's unique
// constraints; the losers re-run the lookup and return the winner's record.
// A Facebook account whose drawn placeholder email is already taken gets up
// to maxHandleAttempts draws.
func (r *Resolver) ResolveFederated(ctx context.Context, profile FederatedProfile) (*models.User, error) {
	lookup, candidate, err := r.plan(profile)
	if err != nil {
		return nil, err
	}

	user, err := lookup(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, storeFailure(err)
	}

	created, err := r.users.Create(ctx, candidate)
	if profile.Provider == ProviderFacebook && profile.Email == "" {
		for attempt := 1; attempt < maxHandleAttempts && isEmailConflict(err); attempt++ {
			r.log.Debug(ctx, "placeholder email taken, drawing another", "attempt", attempt)
			candidate.Email = r.handles.Generate(handlePrefix)
			created, err = r.users.Create(ctx, candidate)
		}
	}
	if err == nil {
		r.log.Info(ctx, "federated account created", "provider", string(profile.Provider), "user_id", created.ID)
		return created, nil
	}

	field, conflict := common.IsUniqueViolation(err)
	if !conflict {
		return nil, storeFailure(err)
	}

	r.log.Debug(ctx, "create lost a race, resolving again", "provider", string(profile.Provider), "field", field)

	user, lerr := lookup(ctx)
	switch {
	case lerr == nil:
		return user, nil
	case errors.Is(lerr, common.ErrorNotFound):
		// the conflicting value belongs to some other account
		r.log.Warn(ctx, "federated create conflicts with another account", "provider", string(profile.Provider), "field", field)
		return nil, storeFailure(err)
	default:
		return nil, storeFailure(lerr)
	}
}

type lookupFunc func(ctx context.Context) (*models.User, error)

// plan picks the provider's natural key and the record to create when that
// key is unknown.
func (r *Resolver) plan(p FederatedProfile) (lookupFunc, *models.User, error) {
	switch p.Provider {
	case ProviderGoogle:
		if p.Email == "" {
			return nil, nil, fmt.Errorf("%w: google profile without email", common.ErrIncompleteProfile)
		}
		lookup := func(ctx context.Context) (*models.User, error) {
			return r.users.FindByEmail(ctx, p.Email)
		}
		return lookup, &models.User{
			UserName: firstNonEmpty(p.DisplayName, p.Username),
			Email:    p.Email,
		}, nil

	case ProviderFacebook:
		id, err := strconv.ParseInt(p.SubjectID, 10, 64)
		if err != nil || id <= 0 {
			return nil, nil, fmt.Errorf("%w: facebook subject id %q", common.ErrIncompleteProfile, p.SubjectID)
		}
		email := p.Email
		if email == "" {
			email = r.handles.Generate(handlePrefix)
		}
		lookup := func(ctx context.Context) (*models.User, error) {
			return r.users.FindByID(ctx, id)
		}
		return lookup, &models.User{
			ID:       id,
			UserName: firstNonEmpty(p.Username, p.DisplayName),
			Email:    email,
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownProvider, string(p.Provider))
	}
}

func isEmailConflict(err error) bool {
	field, ok := common.IsUniqueViolation(err)
	return ok && field == "email"
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %w", common.ErrIdentityStoreFailure, err)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
