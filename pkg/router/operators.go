package router

import (
	"fmt"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/compute"
	"github.com/vango-dev/routesync/pkg/host"
)

// GoTo returns an action navigating to url. url is a string or a
// compute.Value resolved against the running signal.
func GoTo(url any) host.Action {
	return func(ctx *host.Context) error {
		p, err := providerOf(ctx)
		if err != nil {
			return err
		}
		u, err := resolveString(ctx, url)
		if err != nil {
			return err
		}
		return p.GoTo(u)
	}
}

// Redirect returns an action replacing the URL with url.
func Redirect(url any) host.Action {
	return func(ctx *host.Context) error {
		p, err := providerOf(ctx)
		if err != nil {
			return err
		}
		u, err := resolveString(ctx, url)
		if err != nil {
			return err
		}
		return p.Redirect(u)
	}
}

// RedirectToSignal returns an action running signal with payload. Payload
// values that are compute.Values are resolved first.
func RedirectToSignal(signal any, payload map[string]any) host.Action {
	return func(ctx *host.Context) error {
		p, err := providerOf(ctx)
		if err != nil {
			return err
		}
		name, err := resolveString(ctx, signal)
		if err != nil {
			return err
		}
		resolved := make(map[string]any, len(payload))
		for k, v := range payload {
			if cv, ok := v.(compute.Value); ok {
				if v, err = ctx.Resolve(cv); err != nil {
					return err
				}
			}
			resolved[k] = v
		}
		return p.RedirectToSignal(name, resolved)
	}
}

func providerOf(ctx *host.Context) (*Provider, error) {
	p, ok := ctx.Provider(ProviderName).(*Provider)
	if !ok {
		return nil, errors.Newf(errors.CodeInvalidOption, "no router provider registered on the host.")
	}
	return p, nil
}

func resolveString(ctx *host.Context, arg any) (string, error) {
	v := arg
	if cv, ok := arg.(compute.Value); ok {
		var err error
		if v, err = ctx.Resolve(cv); err != nil {
			return "", err
		}
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(s), nil
	}
}
