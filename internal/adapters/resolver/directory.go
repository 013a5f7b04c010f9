package resolver

import (
	"context"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/ports"
)

// DirectoryResolvers returns a resolve function for every workspace kind,
// backed by dir.
func DirectoryResolvers(dir ports.DirectoryRepository) map[domain.Kind]ResolveFunc {
	return map[domain.Kind]ResolveFunc{
		domain.KindUser:         entityFunc(dir.GetUser),
		domain.KindProfile:      entityFunc(dir.GetProfile),
		domain.KindOrganization: entityFunc(dir.GetOrganization),
		domain.KindProject:      entityFunc(dir.GetProject),
		domain.KindTask:         entityFunc(dir.GetTask),
	}
}

// entityFunc adapts a typed getter. A failed lookup returns an untyped nil
// entity so callers can compare against nil.
func entityFunc[T domain.Entity](get func(context.Context, string) (T, error)) ResolveFunc {
	return func(ctx context.Context, id string) (domain.Entity, error) {
		e, err := get(ctx, id)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}
