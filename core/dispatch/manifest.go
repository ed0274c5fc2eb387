package dispatch

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"ml-pipeline/core/models"

	"github.com/mitchellh/mapstructure"
)

// MaxJobNameLength is SageMaker's limit on training job names
const MaxJobNameLength = 63

var jobNamePattern = regexp.MustCompile(`^[a-zA-Z0-9](-*[a-zA-Z0-9])*$`)

// Older manifests use the CreateTrainingJob field names verbatim.
var manifestKeyAliases = map[string]string{
	"algorithmspecification": "algorithmspec",
}

// ParseManifest decodes manifest.json. Keys match regardless of case and
// underscores, so "TrainingJobName" and "training_job_name" are equivalent.
func ParseManifest(raw []byte) (*models.Manifest, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errorf(ManifestParseError, "failed to parse manifest JSON: %w", err)
	}

	var manifest models.Manifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       manifestDecodeHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		MatchName:        matchManifestKey,
		Result:           &manifest,
	})
	if err != nil {
		return nil, errorf(ManifestParseError, "failed to build manifest decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, errorf(ManifestParseError, "failed to decode manifest: %w", err)
	}

	if err := validateManifest(&manifest); err != nil {
		return nil, newError(ManifestParseError, err)
	}
	return &manifest, nil
}

func matchManifestKey(mapKey, fieldName string) bool {
	return normalizeKey(mapKey) == normalizeKey(fieldName)
}

func normalizeKey(key string) string {
	k := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(key))
	if alias, ok := manifestKeyAliases[k]; ok {
		return alias
	}
	return k
}

// manifestDecodeHook renders booleans as "true"/"false" rather than mapstructure's "1"/"0",
// since hyperparameters are handed to the container as strings. JSON numbers bound for
// integer fields must be whole and fit the field.
func manifestDecodeHook(from reflect.Type, to reflect.Type, value interface{}) (interface{}, error) {
	switch {
	case from.Kind() == reflect.Bool && to.Kind() == reflect.String:
		return strconv.FormatBool(value.(bool)), nil
	case from.Kind() == reflect.Float64 && isIntKind(to.Kind()):
		return wholeNumber(value.(float64), to)
	}
	return value, nil
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func wholeNumber(f float64, to reflect.Type) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 || reflect.Zero(to).OverflowInt(int64(f)) {
		return 0, fmt.Errorf("%v is out of range for %s", f, to)
	}
	return int64(f), nil
}

func validateManifest(m *models.Manifest) error {
	var problems []string

	m.TrainingJobName = strings.TrimSpace(m.TrainingJobName)
	switch {
	case m.TrainingJobName == "":
		problems = append(problems, "training_job_name is required")
	case !jobNamePattern.MatchString(m.TrainingJobName):
		problems = append(problems, fmt.Sprintf("training_job_name %q must be alphanumeric with hyphens", m.TrainingJobName))
	}

	if m.ResourceConfig.InstanceType == "" {
		problems = append(problems, "resource_config.instance_type is required")
	}
	if m.ResourceConfig.InstanceCount <= 0 {
		problems = append(problems, "resource_config.instance_count must be positive")
	}
	if m.ResourceConfig.VolumeSizeInGB <= 0 {
		problems = append(problems, "resource_config.volume_size_in_gb must be positive")
	}
	if m.StoppingCondition.MaxRuntimeInSeconds <= 0 {
		problems = append(problems, "stopping_condition.max_runtime_in_seconds must be positive")
	}

	switch m.AlgorithmSpec.TrainingInputMode {
	case "", models.InputModeFile, models.InputModePipe, models.InputModeFastFile:
	default:
		problems = append(problems, fmt.Sprintf("unsupported training input mode %q", m.AlgorithmSpec.TrainingInputMode))
	}

	for i, tag := range m.Tags {
		if tag.Key == "" {
			problems = append(problems, fmt.Sprintf("tags[%d] has no key", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid manifest: %s", strings.Join(problems, "; "))
	}
	return nil
}
