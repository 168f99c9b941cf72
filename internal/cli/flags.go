package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/spf13/pflag"
)

// nullableInt64 is a flag that distinguishes "not given" from an explicit
// "null", which matches unset columns when listing.
type nullableInt64 struct {
	set   bool
	value *int64
}

var _ pflag.Value = (*nullableInt64)(nil)

func (f *nullableInt64) String() string {
	if f.value == nil {
		if f.set {
			return "null"
		}
		return ""
	}
	return strconv.FormatInt(*f.value, 10)
}

func (f *nullableInt64) Set(s string) error {
	f.set = true
	if s == "null" {
		f.value = nil
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer or null, got %q", s)
	}
	f.value = &v
	return nil
}

func (f *nullableInt64) Type() string { return "int|null" }

type nullableString struct {
	set   bool
	value *string
}

var _ pflag.Value = (*nullableString)(nil)

func (f *nullableString) String() string {
	if f.value == nil {
		if f.set {
			return "null"
		}
		return ""
	}
	return *f.value
}

func (f *nullableString) Set(s string) error {
	f.set = true
	if s == "null" {
		f.value = nil
		return nil
	}
	f.value = &s
	return nil
}

func (f *nullableString) Type() string { return "string|null" }

// attributeFlags binds --node-id, --site-id and --region.
type attributeFlags struct {
	nodeID nullableInt64
	siteID nullableInt64
	region nullableString
}

func (a *attributeFlags) register(fs *pflag.FlagSet) {
	fs.Var(&a.nodeID, "node-id", "Owning node id (null for none)")
	fs.Var(&a.siteID, "site-id", "Owning site id (null for none)")
	fs.Var(&a.region, "region", "Page region (null for none)")
}

func (a *attributeFlags) attributes() domain.Attributes {
	return domain.Attributes{NodeID: a.nodeID.value, SiteID: a.siteID.value, Region: a.region.value}
}

// conditions returns the listing conditions for the flags that were given.
func (a *attributeFlags) conditions() map[string]any {
	conditions := map[string]any{}
	if a.nodeID.set {
		conditions["node_id"] = a.nodeID.value
	}
	if a.siteID.set {
		conditions["site_id"] = a.siteID.value
	}
	if a.region.set {
		conditions["region"] = a.region.value
	}
	return conditions
}

// parseOptions turns repeated key=value flags into item options. Integers
// and true/false are stored typed; everything else stays a string.
func parseOptions(pairs []string) (domain.Options, error) {
	opts := domain.Options{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: option %q must be key=value", domain.ErrValidation, pair)
		}
		switch {
		case value == "true" || value == "false":
			opts[key] = value == "true"
		default:
			if n, err := strconv.Atoi(value); err == nil {
				opts[key] = n
			} else {
				opts[key] = value
			}
		}
	}
	return opts, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, s)
	}
	return id, nil
}
