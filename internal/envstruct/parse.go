package envstruct

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate populates the fields of the pointer to struct v with values from the environment.
//
// lookupEnv is used to look up environment variables. It has the same signature as [os.LookupEnv].
// Fields in the struct v must be tagged with `env:"ENV_VAR"` where ENV_VAR is the name of the
// environment variable. If no environment variable matching ENV_VAR is provided, the field must
// be tagged with a default value `envDefault:"value"` or else ErrEnvNotSet is returned.
// String and int fields are supported.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errorList []error

	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}
		if !refField.CanSet() {
			errorList = append(errorList, fmt.Errorf("%w: cannot set field: %s",
				ErrInvalidValue, refTypeField.Name))
			continue
		}

		val, err := envLookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}

		switch refField.Kind() {
		case reflect.String:
			refField.Set(reflect.ValueOf(val))
		case reflect.Int:
			var parsed int
			if parsed, err = strconv.Atoi(val); err != nil {
				errorList = append(errorList, fmt.Errorf(
					"%w: invalid integer - field: %s, env: %s, value: %q",
					ErrInvalidValue, refTypeField.Name, envVarName, val))
				continue
			}
			refField.SetInt(int64(parsed))
		default:
			errorList = append(errorList, fmt.Errorf(
				"%w: only strings and ints are supported - field: %s, type: %s, env: %s",
				ErrInvalidValue, refTypeField.Name, refField.Kind().String(), envVarName))
		}
	}

	if len(errorList) != 0 {
		// Join the errors into a single error.
		return errors.Join(errorList...)
	}

	return nil
}

func envLookupWithFallback(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	envVarValue, ok := lookupEnv(envVarName)
	if !ok {
		envVarValue, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: environment variable not set: %s", ErrEnvNotSet, envVarName)
		}
	}
	return envVarValue, nil
}
