package crypto

import "errors"

// ErrSignature indicates a signature failed verification.
var ErrSignature = errors.New("crypto: signature verification failed")

// ErrDecrypt indicates a ciphertext could not be decrypted, either because
// the key is wrong or the blob was tampered with.
var ErrDecrypt = errors.New("crypto: decryption failed")
