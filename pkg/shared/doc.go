// Package shared holds the configuration and client plumbing used by the
// anchoring collaborators: network normalization, Hedera client
// construction, operator and anchor settings loaded from the environment or
// a .env file, key parsing, and logger construction.
//
// The hashing core (canonical, digest, merkle, batch) never imports this
// package; every input it needs arrives as an explicit parameter.
//
// # Environment Variables
//
//	HEDERA_NETWORK         mainnet or testnet (default testnet)
//	OPERATOR_ID            operator account, also HEDERA_ACCOUNT_ID
//	OPERATOR_KEY           operator private key, also HEDERA_PRIVATE_KEY
//	OPERATOR_KEY_TYPE      ecdsa, ed25519 or empty to detect
//	TOPIC_ID               anchor topic, also HCS_TOPIC_ID
//	MIRROR_NODE_BASE_URL   mirror node REST base URL
//	LOG_LEVEL              zerolog level name (default info)
//
// Network-scoped overrides such as TESTNET_OPERATOR_ID take precedence over
// the generic names.
package shared
