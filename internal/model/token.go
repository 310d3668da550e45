package model

import "time"

// Token models an entry in the `tokens` table: one persisted refresh
// session.  A user may hold several concurrent tokens, one per login.  The
// row id is embedded inside the signed refresh token, binding the bearer
// credential to a server-side record that revocation can delete.
//
// Fields:
//  ID        – primary key (uuid string), referenced by refresh claims.
//  UserID    – owner of the session.
//  CreatedAt – timestamp of creation.
type Token struct {
    ID        string    `json:"id"`
    UserID    string    `json:"userId"`
    CreatedAt time.Time `json:"createdAt"`
}
