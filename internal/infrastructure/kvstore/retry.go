package kvstore

import "time"

// RetryPolicy reintentos para operaciones de escritura del almacén. La
// política es configurable y vive en la frontera de almacenamiento, no en
// cada llamador.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy 3 intentos con 1 segundo fijo entre ellos.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Second}
}

// RetryStore decorador de Store que reintenta Set y Delete según la
// política. Las lecturas no se reintentan.
type RetryStore struct {
	inner  Store
	policy RetryPolicy
	sleep  func(time.Duration) // inyectable en tests
}

var _ Store = (*RetryStore)(nil)

// NewRetryStore construye el decorador. Una política con MaxAttempts < 1
// se normaliza a 1 (sin reintentos).
func NewRetryStore(inner Store, policy RetryPolicy) *RetryStore {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryStore{inner: inner, policy: policy, sleep: time.Sleep}
}

func (s *RetryStore) Get(key string) (string, bool, error) { return s.inner.Get(key) }
func (s *RetryStore) Keys() ([]string, error)              { return s.inner.Keys() }

func (s *RetryStore) Set(key, value string) error {
	return s.retry(func() error { return s.inner.Set(key, value) })
}

func (s *RetryStore) Delete(key string) error {
	return s.retry(func() error { return s.inner.Delete(key) })
}

func (s *RetryStore) retry(op func() error) error {
	var err error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt < s.policy.MaxAttempts {
			s.sleep(s.policy.Delay)
		}
	}
	return err
}
