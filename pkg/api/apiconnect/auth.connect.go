package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/familysafe/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "familysafe.v1.AuthService"
)

// Procedure paths for AuthService RPCs.
const (
	AuthServiceRegisterProcedure          = "/familysafe.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/familysafe.v1.AuthService/Login"
	AuthServiceGetCurrentAccountProcedure = "/familysafe.v1.AuthService/GetCurrentAccount"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentAccount(context.Context, *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	handlers := map[string]http.Handler{
		AuthServiceRegisterProcedure:          connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:             connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentAccountProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentAccountProcedure, svc.GetCurrentAccount, opts...),
	}
	return "/" + AuthServiceName + "/", route(handlers)
}

// AuthServiceClient is a client for the familysafe.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentAccount(context.Context, *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error)
}

// NewAuthServiceClient constructs a client for the familysafe.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &authServiceClient{
		register:          connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:             connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentAccount: connect.NewClient[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse](httpClient, baseURL+AuthServiceGetCurrentAccountProcedure, opts...),
	}
}

type authServiceClient struct {
	register          *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login             *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentAccount *connect.Client[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentAccount(ctx context.Context, req *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error) {
	return c.getCurrentAccount.CallUnary(ctx, req)
}
