package proto

import (
	"github.com/dmitrijs2005/staffdir/internal/users"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message field names.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldLogin       = "login"
	FieldPIN         = "pin"
	FieldRole        = "role"
	FieldUser        = "user"
	FieldUsers       = "users"
	FieldAccessToken = "access_token"
	FieldStatus      = "status"
)

func userMap(u users.User, withPIN bool) map[string]any {
	m := map[string]any{
		FieldID:    u.ID,
		FieldName:  u.Name,
		FieldLogin: u.Login,
		FieldRole:  u.Role,
	}
	if withPIN {
		m[FieldPIN] = u.PIN
	}
	return m
}

func str(s *structpb.Struct, field string) string {
	return s.GetFields()[field].GetStringValue()
}

func optStr(s *structpb.Struct, field string) *string {
	v, ok := s.GetFields()[field]
	if !ok {
		return nil
	}
	out := v.GetStringValue()
	return &out
}

func userFromStruct(s *structpb.Struct) users.User {
	return users.User{
		ID:    str(s, FieldID),
		Name:  str(s, FieldName),
		Login: str(s, FieldLogin),
		PIN:   str(s, FieldPIN),
		Role:  str(s, FieldRole),
	}
}

// NewCredentialsRequest builds an Authenticate request.
func NewCredentialsRequest(login, pin string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{FieldLogin: login, FieldPIN: pin})
}

func CredentialsFromRequest(s *structpb.Struct) (login, pin string) {
	return str(s, FieldLogin), str(s, FieldPIN)
}

// NewSessionResponse carries the access token and the authenticated user
// without its PIN.
func NewSessionResponse(token string, u users.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		FieldAccessToken: token,
		FieldUser:        userMap(u, false),
	})
}

func SessionFromResponse(s *structpb.Struct) (token string, u users.User) {
	return str(s, FieldAccessToken), userFromStruct(s.GetFields()[FieldUser].GetStructValue())
}

// NewUserResponse wraps one user. The PIN is only included when withPIN is
// set, which the server does right after enrolment.
func NewUserResponse(u users.User, withPIN bool) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{FieldUser: userMap(u, withPIN)})
}

func UserFromResponse(s *structpb.Struct) users.User {
	return userFromStruct(s.GetFields()[FieldUser].GetStructValue())
}

// NewUsersResponse lists users without their PINs.
func NewUsersResponse(list []users.User) (*structpb.Struct, error) {
	items := make([]any, 0, len(list))
	for _, u := range list {
		items = append(items, userMap(u, false))
	}
	return structpb.NewStruct(map[string]any{FieldUsers: items})
}

func UsersFromResponse(s *structpb.Struct) []users.User {
	values := s.GetFields()[FieldUsers].GetListValue().GetValues()
	out := make([]users.User, 0, len(values))
	for _, v := range values {
		out = append(out, userFromStruct(v.GetStructValue()))
	}
	return out
}

func NewCreateUserRequest(n users.NewUser) (*structpb.Struct, error) {
	m := map[string]any{FieldName: n.Name, FieldRole: n.Role}
	for field, v := range map[string]string{FieldID: n.ID, FieldLogin: n.Login, FieldPIN: n.PIN} {
		if v != "" {
			m[field] = v
		}
	}
	return structpb.NewStruct(m)
}

func NewUserFromRequest(s *structpb.Struct) users.NewUser {
	return users.NewUser{
		ID:    str(s, FieldID),
		Name:  str(s, FieldName),
		Role:  str(s, FieldRole),
		Login: str(s, FieldLogin),
		PIN:   str(s, FieldPIN),
	}
}

// NewUpdateUserRequest encodes only the fields present in p, so the server
// can tell "unchanged" from "set to empty".
func NewUpdateUserRequest(id string, p users.Patch) (*structpb.Struct, error) {
	m := map[string]any{FieldID: id}
	if p.Name != nil {
		m[FieldName] = *p.Name
	}
	if p.Login != nil {
		m[FieldLogin] = *p.Login
	}
	if p.PIN != nil {
		m[FieldPIN] = *p.PIN
	}
	if p.Role != nil {
		m[FieldRole] = *p.Role
	}
	return structpb.NewStruct(m)
}

func PatchFromRequest(s *structpb.Struct) (id string, p users.Patch) {
	return str(s, FieldID), users.Patch{
		Name:  optStr(s, FieldName),
		Login: optStr(s, FieldLogin),
		PIN:   optStr(s, FieldPIN),
		Role:  optStr(s, FieldRole),
	}
}

func NewIDRequest(id string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{FieldID: id})
}

func IDFromRequest(s *structpb.Struct) string {
	return str(s, FieldID)
}

func NewStatusResponse(status string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldStatus: structpb.NewStringValue(status),
	}}
}

func StatusFromResponse(s *structpb.Struct) string {
	return str(s, FieldStatus)
}
