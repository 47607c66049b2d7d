package settings

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// SiteConfig is the resolved configuration tree the marketing site consumes.
// Static defaults live here; persisted overrides are layered on top key by key.
type SiteConfig struct {
	Site     SiteIdentity    `json:"site"`
	Contact  ContactDetails  `json:"contact"`
	Social   SocialLinks     `json:"social"`
	Warranty WarrantyDefault `json:"warranty"`
	Hero     HeroCopy        `json:"hero"`
}

type SiteIdentity struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	LogoURL string `json:"logoUrl"`
}

type ContactDetails struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type SocialLinks struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	YouTube   string `json:"youtube"`
	WhatsApp  string `json:"whatsapp"`
}

type WarrantyDefault struct {
	DurationYears int    `json:"durationYears"`
	TermsURL      string `json:"termsUrl"`
}

type HeroCopy struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"ctaLabel"`
}

// Defaults returns the built-in configuration tree.
func Defaults() SiteConfig {
	return SiteConfig{
		Site: SiteIdentity{
			Name:    "ShieldWrap",
			Tagline: "Paint protection that outlasts the road",
		},
		Contact: ContactDetails{
			Phone: "+91 98765 00000",
			Email: "care@shieldwrap.in",
		},
		Social: SocialLinks{},
		Warranty: WarrantyDefault{
			DurationYears: 10,
		},
		Hero: HeroCopy{
			Title:    "Armor for your paint",
			Subtitle: "Self-healing PPF installed by certified studios",
			CTALabel: "Register your warranty",
		},
	}
}

type fieldSpec struct {
	apply func(*SiteConfig, string) error
}

func stringField(target func(*SiteConfig) *string) fieldSpec {
	return fieldSpec{apply: func(cfg *SiteConfig, value string) error {
		*target(cfg) = value
		return nil
	}}
}

func urlField(target func(*SiteConfig) *string) fieldSpec {
	return fieldSpec{apply: func(cfg *SiteConfig, value string) error {
		if value == "" {
			*target(cfg) = ""
			return nil
		}
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("must be an absolute URL")
		}
		*target(cfg) = value
		return nil
	}}
}

func emailField(target func(*SiteConfig) *string) fieldSpec {
	return fieldSpec{apply: func(cfg *SiteConfig, value string) error {
		if value == "" {
			*target(cfg) = ""
			return nil
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Errorf("must be a valid email address")
		}
		*target(cfg) = value
		return nil
	}}
}

func intField(target func(*SiteConfig) *int, min, max int) fieldSpec {
	return fieldSpec{apply: func(cfg *SiteConfig, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("must be an integer")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		*target(cfg) = n
		return nil
	}}
}

// schema registers every dot-path an override row may carry. Writes naming a
// key outside this table are rejected.
var schema = map[string]fieldSpec{
	"site.name":    stringField(func(c *SiteConfig) *string { return &c.Site.Name }),
	"site.tagline": stringField(func(c *SiteConfig) *string { return &c.Site.Tagline }),
	"site.logoUrl": urlField(func(c *SiteConfig) *string { return &c.Site.LogoURL }),

	"contact.phone":   stringField(func(c *SiteConfig) *string { return &c.Contact.Phone }),
	"contact.email":   emailField(func(c *SiteConfig) *string { return &c.Contact.Email }),
	"contact.address": stringField(func(c *SiteConfig) *string { return &c.Contact.Address }),

	"social.instagram": urlField(func(c *SiteConfig) *string { return &c.Social.Instagram }),
	"social.facebook":  urlField(func(c *SiteConfig) *string { return &c.Social.Facebook }),
	"social.youtube":   urlField(func(c *SiteConfig) *string { return &c.Social.YouTube }),
	"social.whatsapp":  stringField(func(c *SiteConfig) *string { return &c.Social.WhatsApp }),

	"warranty.durationYears": intField(func(c *SiteConfig) *int { return &c.Warranty.DurationYears }, 1, 25),
	"warranty.termsUrl":      urlField(func(c *SiteConfig) *string { return &c.Warranty.TermsURL }),

	"hero.title":    stringField(func(c *SiteConfig) *string { return &c.Hero.Title }),
	"hero.subtitle": stringField(func(c *SiteConfig) *string { return &c.Hero.Subtitle }),
	"hero.ctaLabel": stringField(func(c *SiteConfig) *string { return &c.Hero.CTALabel }),
}

// KnownKeys returns every registered dot-path, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks a key/value pair against the schema without mutating state.
func Validate(key, value string) error {
	spec, ok := schema[key]
	if !ok {
		return fmt.Errorf("unknown setting key %q", key)
	}
	var scratch SiteConfig
	return spec.apply(&scratch, value)
}

// applyOverride mutates cfg with a single persisted key/value pair.
func applyOverride(cfg *SiteConfig, key, value string) error {
	spec, ok := schema[key]
	if !ok {
		return fmt.Errorf("unknown setting key %q", key)
	}
	if err := spec.apply(cfg, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
