// Package mock provides state-based fakes for the identity service and the
// document store, plus recording Metrics and EventPublisher implementations.
//
// Behaviour is configured through function fields; calls are counted and the
// accepted inputs are kept for assertions:
//
//	id := mock.NewIdentity()
//	id.CreateUserFunc = func(ctx context.Context, email, password string) (registration.Credential, error) {
//	    return registration.Credential{}, &registration.IdentityError{
//	        Code:    registration.CodeEmailInUse,
//	        Message: "email already in use",
//	    }
//	}
//
//	store := mock.NewStore(clock.NewFixed(now))
//	svc := registration.NewService(registration.Deps{Identity: id, Store: store})
package mock
