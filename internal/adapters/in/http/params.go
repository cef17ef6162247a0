package http

import (
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds a required uuid path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFrom(id)
}

// queryStrings binds an optional repeated query parameter such as ?status=a&status=b.
func queryStrings(ctx echo.Context, name string) ([]string, error) {
	var values *[]string
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), &values); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if values == nil {
		return nil, nil
	}
	return *values, nil
}

func queryBool(ctx echo.Context, name string) (bool, error) {
	var value *bool
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), &value); err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value != nil && *value, nil
}

func optionalUUID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFrom(*id)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
