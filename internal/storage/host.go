package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"lockbox/internal/domain"
)

// HostClient speaks the host agent's secure-store surface: JSON over HTTP on
// a local socket, one POST per method. A method the agent does not implement
// (404/405) is reported as unsupported, never as an error.
type HostClient struct {
	Base string
	HTTP *http.Client
}

// NewHostClient dials the agent at socket (a unix socket path, or a named
// pipe path on Windows). The host in Base is a placeholder; every connection
// goes to the socket.
func NewHostClient(socket string) *HostClient {
	return &HostClient{
		Base: "http://lockbox-agent",
		HTTP: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return dialAgent(ctx, socket)
				},
			},
		},
	}
}

type rpcRequest struct {
	InstanceID string `json:"instanceId"`
	Value      []byte `json:"value,omitempty"`
}

type rpcResponse struct {
	Present bool   `json:"present"`
	Value   []byte `json:"value,omitempty"`
}

// call posts one method. supported is false when the agent lacks the method.
func (c *HostClient) call(ctx context.Context, method string, in rpcRequest, out *rpcResponse) (supported bool, err error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/rpc/"+method, buf)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusMethodNotAllowed:
		return false, nil
	case resp.StatusCode/100 != 2:
		return false, fmt.Errorf("agent %s: %s", method, resp.Status)
	}
	if out != nil {
		return true, json.NewDecoder(resp.Body).Decode(out)
	}
	return true, nil
}

// hostStore proxies every field operation to the host agent. The wrapping
// key crosses the IPC boundary as raw bytes; the agent owns re-protecting it.
type hostStore struct {
	id     domain.InstanceID
	client *HostClient
}

// NewHostAdapter returns a host-backed adapter over an explicit client.
// Mostly useful for tests; production adapters come from a Provider.
func NewHostAdapter(client *HostClient, id domain.InstanceID) domain.StorageAdapter {
	return &hostStore{id: id, client: client}
}

func (s *hostStore) getField(ctx context.Context, method string) ([]byte, error) {
	var out rpcResponse
	ok, err := s.client.call(ctx, method, rpcRequest{InstanceID: string(s.id)}, &out)
	if err != nil {
		return nil, err
	}
	if !ok || !out.Present {
		return nil, nil
	}
	return out.Value, nil
}

func (s *hostStore) setField(ctx context.Context, method string, v []byte) error {
	_, err := s.client.call(ctx, method, rpcRequest{InstanceID: string(s.id), Value: v}, nil)
	return err
}

func (s *hostStore) Salt(ctx context.Context) ([]byte, error) {
	return s.getField(ctx, "getSalt")
}

func (s *hostStore) SetSalt(ctx context.Context, salt []byte) error {
	return s.setField(ctx, "setSalt", salt)
}

func (s *hostStore) KeyCheckValue(ctx context.Context) (string, error) {
	v, err := s.getField(ctx, "getKeyCheckValue")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *hostStore) SetKeyCheckValue(ctx context.Context, kcv string) error {
	return s.setField(ctx, "setKeyCheckValue", []byte(kcv))
}

func (s *hostStore) WrappingKey(ctx context.Context) ([]byte, error) {
	return s.getField(ctx, "getWrappingKey")
}

func (s *hostStore) SetWrappingKey(ctx context.Context, raw []byte) error {
	return s.setField(ctx, "setWrappingKey", raw)
}

func (s *hostStore) WrappedKey(ctx context.Context) ([]byte, error) {
	return s.getField(ctx, "getWrappedKey")
}

func (s *hostStore) SetWrappedKey(ctx context.Context, blob []byte) error {
	return s.setField(ctx, "setWrappedKey", blob)
}

// HasSessionKeys maps to the agent's existence probe; nothing is decrypted.
func (s *hostStore) HasSessionKeys(ctx context.Context) (bool, error) {
	var out rpcResponse
	ok, err := s.client.call(ctx, "hasSession", rpcRequest{InstanceID: string(s.id)}, &out)
	if err != nil {
		return false, err
	}
	return ok && out.Present, nil
}

func (s *hostStore) ClearSession(ctx context.Context) error {
	return s.setField(ctx, "clearSession", nil)
}

func (s *hostStore) Clear(ctx context.Context) error {
	return s.setField(ctx, "clearKeyStorage", nil)
}

var _ domain.StorageAdapter = (*hostStore)(nil)
