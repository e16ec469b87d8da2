// Package common contains shared constants and sentinel errors used across
// fieldsync components.
package common

import "time"

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultSettleDelay is how long connectivity must stay up after an
// offline period before an automatic sync is started.
const DefaultSettleDelay = 2 * time.Second

// Metadata keys persisted in the local metadata table.
const (
	MetadataForceOffline = "force_offline"
	MetadataAccessToken  = "access_token"
)
