package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/simpleroute/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := api.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		api.log.Error("write error response", zap.String("path", r.URL.Path), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *routingAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("method", r.Method), zap.String("path", r.URL.Path),
		zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

// getStatusCode. respond with the status matching the code of err
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, util.ErrBadParamInput), errors.Is(err, util.ErrIndexOutOfRange):
		api.BadRequestResponse(w, r, err)
	case errors.Is(err, util.ErrNotFound):
		api.NotFoundResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return &requestValidator{validate: validate, trans: trans}
}

// check. nil or one error listing every translated validation failure
func (rv *requestValidator) check(request any) error {
	err := rv.validate.Struct(request)
	if err == nil {
		return nil
	}
	vv := translateError(err, rv.trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func parseFloatParam(query url.Values, name string) (float64, error) {
	v, err := strconv.ParseFloat(query.Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%s is required and must be a valid float", name)
	}
	return v, nil
}
