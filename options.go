package xmlpull

// Option configures a Reader at construction time. An open-ended option
// list fits this module's surface (charset hook, depth limit, custom
// character reader) better than one struct with every field optional.
type Option func(*config)

type config struct {
	outputEncoding  Encoding
	charsetReader   CharsetReader
	maxElementDepth int
	characterReader CharacterReader // bypasses BOM detection when set
	nameCacheSize   int
}

func defaultConfig() config {
	return config{
		outputEncoding:  UTF8,
		charsetReader:   defaultCharsetReader,
		maxElementDepth: 0, // 0 means unbounded
		nameCacheSize:   256,
	}
}

// WithOutputEncoding selects the encoding Reader.Bytes/Reader.AttributeBytes
// materialize into. Node.Bytes/Attribute.Bytes take their encoding as an
// argument and do not consult it. It does not affect Node.Value, which is
// always a Go (UTF-8) string.
func WithOutputEncoding(enc Encoding) Option {
	return func(c *config) { c.outputEncoding = enc }
}

// WithCharsetReader overrides how a declared, non-Unicode charset named
// by an XmlDeclaration's encoding pseudo-attribute is transcoded. The
// default resolves the charset via golang.org/x/text/encoding/ianaindex.
func WithCharsetReader(r CharsetReader) Option {
	return func(c *config) { c.charsetReader = r }
}

// WithMaxElementDepth bounds the element-nesting stack; exceeding it is
// reported as ErrInvalidSyntax. Zero (the default) means unbounded.
func WithMaxElementDepth(depth int) Option {
	return func(c *config) { c.maxElementDepth = depth }
}

// WithCharacterReader bypasses byte-order-mark detection and the
// encoding-specific character readers entirely: the caller supplies its
// own CharacterReader and declares the encoding implicitly.
func WithCharacterReader(cr CharacterReader) Option {
	return func(c *config) { c.characterReader = cr }
}

// WithNameCacheCapacity bounds the qualified-name interning cache
// (internal/nameintern). The default is 256 entries.
func WithNameCacheCapacity(n int) Option {
	return func(c *config) { c.nameCacheSize = n }
}
