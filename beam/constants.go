package beam

// Container header layout: "FOR1", big-endian declared size, "BEAM".
const (
	// HeaderSize is the fixed size of the container header in bytes.
	HeaderSize = 12

	// ChunkHeaderSize is the size of a chunk id plus its size field.
	ChunkHeaderSize = 8
)

var (
	// ContainerMagic opens every module file.
	ContainerMagic = [4]byte{'F', 'O', 'R', '1'}

	// FormatMagic follows the declared size.
	FormatMagic = [4]byte{'B', 'E', 'A', 'M'}
)

// Chunk ids. Only atoms and exports are decoded; the rest are listed so
// that tools can describe them.
var (
	ChunkAtoms      = ChunkID{'A', 't', 'U', '8'} // UTF-8 atom table
	ChunkExports    = ChunkID{'E', 'x', 'p', 'T'} // Export table
	ChunkCode       = ChunkID{'C', 'o', 'd', 'e'} // Bytecode
	ChunkStrings    = ChunkID{'S', 't', 'r', 'T'} // String pool
	ChunkImports    = ChunkID{'I', 'm', 'p', 'T'} // Import table
	ChunkLiterals   = ChunkID{'L', 'i', 't', 'T'} // Compressed literal pool
	ChunkLocals     = ChunkID{'L', 'o', 'c', 'T'} // Local function table
	ChunkLambdas    = ChunkID{'F', 'u', 'n', 'T'} // Lambda table
	ChunkAttributes = ChunkID{'A', 't', 't', 'r'} // Module attributes
	ChunkCompile    = ChunkID{'C', 'I', 'n', 'f'} // Compilation info
	ChunkDebug      = ChunkID{'D', 'b', 'g', 'i'} // Debug info
	ChunkDocs       = ChunkID{'D', 'o', 'c', 's'} // Documentation
	ChunkLines      = ChunkID{'L', 'i', 'n', 'e'} // Line table
	ChunkTypes      = ChunkID{'T', 'y', 'p', 'e'} // Type table
	ChunkMeta       = ChunkID{'M', 'e', 't', 'a'} // Metadata
)

var chunkDescriptions = map[ChunkID]string{
	ChunkAtoms:      "atoms",
	ChunkExports:    "exports",
	ChunkCode:       "code",
	ChunkStrings:    "strings",
	ChunkImports:    "imports",
	ChunkLiterals:   "literals",
	ChunkLocals:     "locals",
	ChunkLambdas:    "lambdas",
	ChunkAttributes: "attributes",
	ChunkCompile:    "compile info",
	ChunkDebug:      "debug info",
	ChunkDocs:       "docs",
	ChunkLines:      "line table",
	ChunkTypes:      "types",
	ChunkMeta:       "meta",
}

// Operand tag field widths.
const (
	tagKindBits     = 3
	tagFormBits     = 1
	smallValueBits  = 4
	normalValueBits = 11
	largeSizeBits   = 3
	extendedBits    = 5

	// largeExternal is the size selector reserved for external references.
	largeExternal = 0b111

	// MaxLargeSize is the largest size field of an inline large value,
	// which then carries MaxLargeSize+2 octets.
	MaxLargeSize = 6

	maxSmall  = 1<<smallValueBits - 1
	maxNormal = 1<<normalValueBits - 1
)
