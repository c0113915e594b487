package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

// agent serves the secure-store surface consumed by the host storage
// backend. Field values live in the OS keychain under the app id; the agent
// itself holds nothing.
type agent struct {
	appID string
	log   zerolog.Logger
}

type rpcRequest struct {
	InstanceID string `json:"instanceId"`
	Value      []byte `json:"value,omitempty"`
}

type rpcResponse struct {
	Present bool   `json:"present"`
	Value   []byte `json:"value,omitempty"`
}

const (
	saltField        = "salt"
	kcvField         = "kcv"
	wrappingKeyField = "wrapping_key"
	wrappedKeyField  = "wrapped_key"
)

func main() {
	var (
		socket = flag.String("socket", defaultSocket(), "socket or named pipe to listen on")
		appID  = flag.String("app-id", "com.tearleads.rapid", "keychain service identifier")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	a := &agent{appID: *appID, log: log}

	ln, err := listenAgent(*socket)
	if err != nil {
		log.Fatal().Err(err).Str("socket", *socket).Msg("listen")
	}

	srv := &http.Server{Handler: a, ReadHeaderTimeout: 5 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("socket", *socket).Msg("host agent listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}

func (a *agent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method, ok := strings.CutPrefix(r.URL.Path, "/rpc/")
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.InstanceID == "" {
		http.Error(w, "instanceId required", http.StatusBadRequest)
		return
	}

	resp, err := a.dispatch(method, req)
	if err != nil {
		if errors.Is(err, errUnknownMethod) {
			http.NotFound(w, r)
			return
		}
		a.log.Error().Err(err).Str("method", method).Msg("rpc failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

var errUnknownMethod = errors.New("unknown method")

func (a *agent) dispatch(method string, req rpcRequest) (rpcResponse, error) {
	id := req.InstanceID
	switch method {
	case "getSalt":
		return a.get(saltField, id)
	case "setSalt":
		return rpcResponse{}, a.set(saltField, id, req.Value)
	case "getKeyCheckValue":
		return a.get(kcvField, id)
	case "setKeyCheckValue":
		return rpcResponse{}, a.set(kcvField, id, req.Value)
	case "getWrappingKey":
		return a.get(wrappingKeyField, id)
	case "setWrappingKey":
		return rpcResponse{}, a.set(wrappingKeyField, id, req.Value)
	case "getWrappedKey":
		return a.get(wrappedKeyField, id)
	case "setWrappedKey":
		return rpcResponse{}, a.set(wrappedKeyField, id, req.Value)
	case "hasSession":
		wk, err := a.get(wrappingKeyField, id)
		if err != nil {
			return rpcResponse{}, err
		}
		wrapped, err := a.get(wrappedKeyField, id)
		if err != nil {
			return rpcResponse{}, err
		}
		return rpcResponse{Present: wk.Present && wrapped.Present}, nil
	case "clearSession":
		return rpcResponse{}, a.del(id, wrappingKeyField, wrappedKeyField)
	case "clearKeyStorage":
		return rpcResponse{}, a.del(id, saltField, kcvField, wrappingKeyField, wrappedKeyField)
	default:
		return rpcResponse{}, errUnknownMethod
	}
}

func (a *agent) account(field, id string) string { return field + "_" + id }

func (a *agent) get(field, id string) (rpcResponse, error) {
	v, err := keyring.Get(a.appID, a.account(field, id))
	if errors.Is(err, keyring.ErrNotFound) {
		return rpcResponse{}, nil
	}
	if err != nil {
		return rpcResponse{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return rpcResponse{}, err
	}
	return rpcResponse{Present: true, Value: raw}, nil
}

func (a *agent) set(field, id string, raw []byte) error {
	return keyring.Set(a.appID, a.account(field, id), base64.StdEncoding.EncodeToString(raw))
}

func (a *agent) del(id string, fields ...string) error {
	for _, f := range fields {
		if err := keyring.Delete(a.appID, a.account(f, id)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
	}
	return nil
}
