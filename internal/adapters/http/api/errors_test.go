package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/novhub/internal/adapters/repository"
	"github.com/okian/novhub/internal/domain/model"
)

func TestClassify(t *testing.T) {
	Convey("Given errors of every kind", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{Wrap("op", fmt.Errorf("%w: email", model.ErrValidation)), http.StatusBadRequest, "bad_request"},
			{Wrap("op", model.ErrNotFound), http.StatusNotFound, "not_found"},
			{NewKind("op", ErrAdminLocked), http.StatusUnauthorized, "unauthorized"},
			{Wrap("op", model.ErrDuplicate), http.StatusConflict, "duplicate"},
			{WrapKind("op", ErrUnsupported, errors.New("text/plain")), http.StatusUnsupportedMediaType, "unsupported_media_type"},
			{Wrap("op", model.ErrTooLarge), http.StatusRequestEntityTooLarge, "too_large"},
			{Wrap("op", repository.ErrStorage), http.StatusServiceUnavailable, "storage_unavailable"},
			{Wrap("op", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		}

		Convey("Then each maps to its status and code", func() {
			for _, c := range cases {
				status, code := classify(c.err)
				So(status, ShouldEqual, c.status)
				So(code, ShouldEqual, c.code)
			}
		})
	})
}

func TestWriteError(t *testing.T) {
	Convey("Given an unclassified failure", t, func() {
		rec := httptest.NewRecorder()
		writeError(rec, http.StatusInternalServerError, "internal_error", errors.New("dial tcp 10.0.0.1: refused"))

		Convey("Then the body hides the cause", func() {
			var body errorResponse
			So(json.NewDecoder(rec.Body).Decode(&body), ShouldBeNil)
			So(body.Message, ShouldEqual, ErrInternal.Error())
		})
	})

	Convey("Given a client error", t, func() {
		rec := httptest.NewRecorder()
		writeError(rec, http.StatusBadRequest, "bad_request", Wrap("op", errors.New("email is required")))

		Convey("Then the body carries the cause", func() {
			var body errorResponse
			So(json.NewDecoder(rec.Body).Decode(&body), ShouldBeNil)
			So(body.Message, ShouldEqual, "email is required")
		})
	})
}

func TestDecodeJSON(t *testing.T) {
	Convey("Given request bodies", t, func() {
		var dst map[string]any
		decode := func(ct, body string) error {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			return decodeJSON(httptest.NewRecorder(), req, "op", &dst)
		}

		Convey("Then JSON with or without a charset is accepted", func() {
			So(decode("application/json", `{"a":1}`), ShouldBeNil)
			So(decode("application/json; charset=utf-8", `{"a":1}`), ShouldBeNil)
			So(decode("", `{"a":1}`), ShouldBeNil)
		})

		Convey("Then other content types are unsupported", func() {
			err := decode("text/plain", `{"a":1}`)
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
		})

		Convey("Then empty and malformed bodies are bad requests", func() {
			So(errors.Is(decode("application/json", ""), ErrBadRequest), ShouldBeTrue)
			So(errors.Is(decode("application/json", "{"), ErrBadRequest), ShouldBeTrue)
		})
	})
}
