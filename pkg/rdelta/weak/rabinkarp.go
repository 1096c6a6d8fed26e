package weak

// rabinKarpMultiplier is the polynomial base. It has no special
// number-theoretic properties beyond being odd (invertible mod 2^32); it was
// chosen, as in the reference implementation, simply to spread bits well.
const rabinKarpMultiplier uint32 = 0x08104225

// pow returns multiplier^n mod 2^32 by repeated squaring.
func pow(n int) uint32 {
	var result uint32 = 1
	base := rabinKarpMultiplier
	for n > 0 {
		if n&1 == 1 {
			result *= base
		}
		base *= base
		n >>= 1
	}
	return result
}

type rabinKarpState struct {
	hash  uint32
	count int
}

func (r *rabinKarpState) Init() {
	r.hash = 0
	r.count = 0
}

func (r *rabinKarpState) Update(window []byte) {
	r.Init()
	for _, b := range window {
		r.Rollin(b)
	}
}

func (r *rabinKarpState) Rollin(in byte) {
	r.hash = r.hash*rabinKarpMultiplier + uint32(in)
	r.count++
}

// Rollout removes the oldest byte in the window, which carries weight
// multiplier^(count-1) in the polynomial hash(window) = sum(byte_i *
// multiplier^(count-1-i)).
func (r *rabinKarpState) Rollout(out byte) {
	r.hash -= uint32(out) * pow(r.count-1)
	r.count--
}

// Rotate removes the oldest byte and appends a new one, leaving the window
// length unchanged.
func (r *rabinKarpState) Rotate(out, in byte) {
	r.hash = (r.hash-uint32(out)*pow(r.count-1))*rabinKarpMultiplier + uint32(in)
}

func (r *rabinKarpState) Count() int {
	return r.count
}

func (r *rabinKarpState) Digest() uint32 {
	return r.hash
}
