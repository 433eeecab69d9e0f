package smoke

import (
	"strings"

	"github.com/ezpy/ezdev/internal/errors"
)

// Case is a single tool invocation checked by the smoke test.
type Case struct {
	// Tool is the qualified tool name (namespace__function).
	Tool string

	// Args are positional string arguments passed to the tool.
	Args []string

	// NeedsUserData marks cases that read the mounted user-data file.
	NeedsUserData bool

	// Validate optionally checks the decoded payload beyond the
	// baseline "JSON object on stdout" requirement.
	Validate func(payload map[string]any) error
}

// DockerCases returns the tool checks run against the built image,
// covering every tool namespace the server exposes.
func DockerCases() []Case {
	return []Case{
		{Tool: "datetime__configured_timezone"},
		{Tool: "datetime__country_timezones", Args: []string{"US"}},
		{Tool: "datetime__current", Args: []string{"PST"}},
		{Tool: "ip_address__public_ipv4", Validate: validatePublicIP},
		{Tool: "ip_address__approximate_physical_location"},
		{Tool: "math__add", Args: []string{"1", "2"}},
		{Tool: "math__subtract", Args: []string{"10", "3"}},
		{Tool: "math__multiply", Args: []string{"3", "4"}},
		{Tool: "math__divide", Args: []string{"10", "2"}},
		{Tool: "math__modulo", Args: []string{"10", "3"}},
		{Tool: "math__power", Args: []string{"2", "8"}},
		{Tool: "math__absolute", Args: []string{"-5"}},
		{Tool: "math__round_number", Args: []string{"3.14159", "2"}},
		{Tool: "math__ceil", Args: []string{"2.1"}},
		{Tool: "math__floor", Args: []string{"2.9"}},
		{Tool: "math__square_root", Args: []string{"9"}},
		{Tool: "math__factorial", Args: []string{"5"}},
		{Tool: "math__sin", Args: []string{"30"}},
		{Tool: "math__cos", Args: []string{"60"}},
		{Tool: "math__tan", Args: []string{"45"}},
		{Tool: "math__asin", Args: []string{"0.5"}},
		{Tool: "math__acos", Args: []string{"0.5"}},
		{Tool: "math__atan", Args: []string{"1"}},
		{Tool: "math__degrees_to_radians", Args: []string{"180"}},
		{Tool: "math__radians_to_degrees", Args: []string{"3.1415926535"}},
		{Tool: "math__hypotenuse", Args: []string{"3", "4"}},
		{Tool: "math__ln", Args: []string{"2.718281828"}},
		{Tool: "math__log", Args: []string{"100", "10"}},
		{Tool: "math__constants"},
		{Tool: "text__characters_count", Args: []string{"hello world"}},
		{Tool: "text__words_count", Args: []string{"hello world from docker"}},
		{Tool: "text__show_characters", Args: []string{"hello"}, Validate: validateShowCharacters},
		{Tool: "user_information__personal_data", NeedsUserData: true, Validate: validatePersonalData},
		{Tool: "weather__temperature_unit_for_country", Args: []string{"US"}},
		{Tool: "weather__current_with_forecast", Args: []string{"34.0522", "-118.2437"}},
	}
}

func validatePublicIP(payload map[string]any) error {
	ip, _ := payload["public_ip"].(string)
	if strings.TrimSpace(ip) == "" {
		return errors.New("missing `public_ip` in output")
	}
	return nil
}

func validatePersonalData(payload map[string]any) error {
	switch name := payload["name"].(type) {
	case string:
		if strings.TrimSpace(name) == "" {
			return errors.New("empty `name` value")
		}
	case map[string]any:
		var filled bool
		for _, part := range []string{"first", "middle", "last"} {
			if s, ok := name[part].(string); ok && strings.TrimSpace(s) != "" {
				filled = true
			}
		}
		if !filled {
			return errors.New("empty structured `name` object")
		}
	default:
		return errors.New("missing `name` in personal_data output")
	}

	if _, ok := payload["age"]; !ok {
		return errors.New("missing `age` in personal_data output")
	}
	return nil
}

func validateShowCharacters(payload map[string]any) error {
	if payload["word"] != "hello" {
		return errors.New("unexpected `word` value for show_characters")
	}
	chars, ok := payload["characters"].([]any)
	if !ok {
		return errors.New("missing `characters` array for show_characters")
	}
	want := []string{"h", "e", "l", "l", "o"}
	if len(chars) != len(want) {
		return errors.Newf("unexpected `characters` length %d", len(chars))
	}
	for i, c := range chars {
		if c != want[i] {
			return errors.Newf("unexpected character %v at index %d", c, i)
		}
	}
	return nil
}
