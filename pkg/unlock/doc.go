/*
Package unlock protects an identity's 256-bit unlock key behind a rescue code.

# How it works:

Every rotation generates a brand-new rescue code and stretches it into an AES-256 key
with memory-hard, deliberately expensive derivation (see pkg/enscrypt). The unlock key is
sealed under that key with AES-256-GCM, binding the block's own header (declared length,
type tag, and cost parameters) in as associated data, so tampering with any header field
invalidates the authentication tag even though the header is not encrypted.

The GCM nonce is a fixed all-zero value. This is safe only because a freshly derived key
is used for exactly one seal: a new rescue code, and with it a new key, is generated on
every rotation, and the derived key buffer is zeroed once the seal or open completes.
Never add a code path that seals twice under the same derived key.

Neither the rescue code nor the unlock key is ever persisted. The code exists only in the
return value of New and Rotate; the caller shows it to the user and forgets it. Recovering
the unlock key with anything other than the most recently issued code fails with
ErrAuthenticationFailed.

# General guidelines:
  - Treat ErrAuthenticationFailed as "wrong rescue code" and re-prompt the user. All other
    errors are structural and not recoverable by retry.
  - A Block is exclusively owned by one caller for the duration of a call. Rotation either
    fully commits or leaves the block untouched; there is no partially rotated state.
  - Key derivation is CPU and memory hard by design. In a concurrent context, schedule
    Rotate and RecoverUnlockKey on a worker that may block for seconds.
*/
package unlock
