package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the stored credential hash. The cost comes from
// AUTH_BCRYPT_COST; anything below bcrypt's minimum falls back to the
// library default so a misconfigured deployment never weakens hashes.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login secret against the stored hash. The
// comparison is constant-time inside bcrypt; callers map any error to
// the generic invalid-credentials failure.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
