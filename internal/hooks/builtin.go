package hooks

import "github.com/wolfeidau/bundlecompose/internal/models"

// ServerExternalsName is the name of the server-rendering externals preset.
const ServerExternalsName = "server-externals"

// serverIncompatible are packages that break server rendering when bundled:
// optional pretty-printers and storage/encoding shims pulled in by wallet SDKs.
var serverIncompatible = []string{"pino-pretty", "lokijs", "encoding"}

// AddExternals returns a hook that externalizes ids in order.
func AddExternals(name string, ids ...string) Hook {
	list := append([]string(nil), ids...)
	return New(name, func(d *models.Draft) error {
		d.Externals().AddAll(list...)
		return nil
	})
}

// SetOption returns a hook that sets key to value.
func SetOption(name, key string, value any) Hook {
	v := models.CloneValue(value)
	return New(name, func(d *models.Draft) error {
		d.SetOption(key, v)
		return nil
	})
}

// UnsetOption returns a hook that removes keys.
func UnsetOption(name string, keys ...string) Hook {
	list := append([]string(nil), keys...)
	return New(name, func(d *models.Draft) error {
		for _, k := range list {
			d.DeleteOption(k)
		}
		return nil
	})
}

// ServerExternals returns the preset that externalizes packages which cannot
// be bundled for server-side rendering.
func ServerExternals() Hook {
	return AddExternals(ServerExternalsName, serverIncompatible...)
}

// Preset looks up a built-in hook by name.
func Preset(name string) (Hook, bool) {
	switch name {
	case ServerExternalsName:
		return ServerExternals(), true
	default:
		return Hook{}, false
	}
}
