package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/user"
)

const (
	msgUnauthorized = "Unauthorized"
	msgInvalidData  = "invalid data"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// unwrapBindError digs the app error out of the echo.HTTPError the binder wraps decoding errors in.
func unwrapBindError(err error) error {
	if herr, ok := err.(*echo.HTTPError); ok && herr.Internal != nil {
		if vErr, ok := errors.Cause(herr.Internal).(*core.ValidationError); ok {
			return vErr
		}
	}
	return err
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	conf *core.Config,
	logger core.Logger,
	translator ut.Translator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code int
			resp ErrorResponse
		)

		switch origErr := unwrapBindError(errors.Cause(err)).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			resp.Message = fmt.Sprint(origErr.Message)
			if origErr == middleware.ErrJWTMissing || code == http.StatusUnauthorized {
				code = http.StatusUnauthorized
				resp.Message = msgUnauthorized
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp.Message = msgInvalidData
			resp.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				resp.Fields[vErr.Field()] = vErr.Translate(translator)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
			if len(origErr.Fields) > 0 {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Fields[fErr.Field] = fErr.Error
				}
			}
			if resp.Message == "" {
				resp.Message = msgInvalidData
			}
		case *core.NotFoundError:
			code = http.StatusNotFound
			resp.Message = origErr.Error()
		default:
			if origErr == errUnauthorized {
				code = http.StatusUnauthorized
				resp.Message = msgUnauthorized
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			resp.Message = msg
			if conf.Server.ExposeInternalErrors {
				resp.Message = err.Error()
			}

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Username = claims.Username
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				logger.Error(fmt.Sprintf("sending error response: %v", err), err)
			}
		}
	}
}
