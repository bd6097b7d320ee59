package pgwire

type builtinType struct {
	oid        uint32
	name       string
	kind       Kind
	elementOID uint32
	codec      Codec
}

// Built-in descriptors carry the catalog schema pg_catalog; user types
// registered by the catalog layer bring their own schema.
var builtinTypes = []builtinType{
	{oid: BoolOID, name: "bool", kind: KindScalar, codec: BoolCodec{}},
	{oid: ByteaOID, name: "bytea", kind: KindScalar, codec: ByteaCodec{}},
	{oid: QCharOID, name: "char", kind: KindScalar, codec: QCharCodec{}},
	{oid: NameOID, name: "name", kind: KindScalar, codec: TextCodec{}},
	{oid: Int8OID, name: "int8", kind: KindScalar, codec: Int8Codec{}},
	{oid: Int2OID, name: "int2", kind: KindScalar, codec: Int2Codec{}},
	{oid: Int4OID, name: "int4", kind: KindScalar, codec: Int4Codec{}},
	{oid: TextOID, name: "text", kind: KindScalar, codec: TextCodec{}},
	{oid: OIDOID, name: "oid", kind: KindScalar, codec: Uint32Codec{TypeName: "oid"}},
	{oid: XIDOID, name: "xid", kind: KindScalar, codec: Uint32Codec{TypeName: "xid"}},
	{oid: CIDOID, name: "cid", kind: KindScalar, codec: Uint32Codec{TypeName: "cid"}},
	{oid: JSONOID, name: "json", kind: KindScalar, codec: JSONCodec{}},
	{oid: PointOID, name: "point", kind: KindScalar, codec: PointCodec{}},
	{oid: LsegOID, name: "lseg", kind: KindScalar, codec: LsegCodec{}},
	{oid: PathOID, name: "path", kind: KindScalar, codec: PathCodec{}},
	{oid: BoxOID, name: "box", kind: KindScalar, codec: BoxCodec{}},
	{oid: PolygonOID, name: "polygon", kind: KindScalar, codec: PolygonCodec{}},
	{oid: LineOID, name: "line", kind: KindScalar, codec: LineCodec{}},
	{oid: CIDROID, name: "cidr", kind: KindScalar, codec: InetCodec{TypeName: "cidr", RequireNetwork: true}},
	{oid: Float4OID, name: "float4", kind: KindScalar, codec: Float4Codec{}},
	{oid: Float8OID, name: "float8", kind: KindScalar, codec: Float8Codec{}},
	{oid: UnknownOID, name: "unknown", kind: KindPseudo, codec: TextFallbackCodec{}},
	{oid: CircleOID, name: "circle", kind: KindScalar, codec: CircleCodec{}},
	{oid: MacaddrOID, name: "macaddr", kind: KindScalar, codec: MacaddrCodec{}},
	{oid: InetOID, name: "inet", kind: KindScalar, codec: InetCodec{TypeName: "inet"}},
	{oid: BPCharOID, name: "bpchar", kind: KindScalar, codec: TextCodec{}},
	{oid: VarcharOID, name: "varchar", kind: KindScalar, codec: TextCodec{}},
	{oid: DateOID, name: "date", kind: KindScalar, codec: DateCodec{}},
	{oid: TimeOID, name: "time", kind: KindScalar, codec: TimeCodec{}},
	{oid: TimestampOID, name: "timestamp", kind: KindScalar, codec: TimestampCodec{}},
	{oid: TimestamptzOID, name: "timestamptz", kind: KindScalar, codec: TimestamptzCodec{}},
	{oid: IntervalOID, name: "interval", kind: KindScalar, codec: IntervalCodec{}},
	{oid: TimetzOID, name: "timetz", kind: KindScalar, codec: TimetzCodec{}},
	{oid: BitOID, name: "bit", kind: KindScalar, codec: BitsCodec{TypeName: "bit"}},
	{oid: VarbitOID, name: "varbit", kind: KindScalar, codec: BitsCodec{TypeName: "varbit"}},
	{oid: NumericOID, name: "numeric", kind: KindScalar, codec: NumericCodec{}},
	{oid: UUIDOID, name: "uuid", kind: KindScalar, codec: UUIDCodec{}},
	{oid: JSONBOID, name: "jsonb", kind: KindScalar, codec: JSONCodec{Versioned: true}},

	{oid: BoolArrayOID, name: "_bool", kind: KindArray, elementOID: BoolOID},
	{oid: ByteaArrayOID, name: "_bytea", kind: KindArray, elementOID: ByteaOID},
	{oid: Int2ArrayOID, name: "_int2", kind: KindArray, elementOID: Int2OID},
	{oid: Int4ArrayOID, name: "_int4", kind: KindArray, elementOID: Int4OID},
	{oid: Int8ArrayOID, name: "_int8", kind: KindArray, elementOID: Int8OID},
	{oid: TextArrayOID, name: "_text", kind: KindArray, elementOID: TextOID},
	{oid: VarcharArrayOID, name: "_varchar", kind: KindArray, elementOID: VarcharOID},
	{oid: Float4ArrayOID, name: "_float4", kind: KindArray, elementOID: Float4OID},
	{oid: Float8ArrayOID, name: "_float8", kind: KindArray, elementOID: Float8OID},
	{oid: InetArrayOID, name: "_inet", kind: KindArray, elementOID: InetOID},
	{oid: CIDRArrayOID, name: "_cidr", kind: KindArray, elementOID: CIDROID},
	{oid: DateArrayOID, name: "_date", kind: KindArray, elementOID: DateOID},
	{oid: TimestampArrayOID, name: "_timestamp", kind: KindArray, elementOID: TimestampOID},
	{oid: TimestamptzArrayOID, name: "_timestamptz", kind: KindArray, elementOID: TimestamptzOID},
	{oid: NumericArrayOID, name: "_numeric", kind: KindArray, elementOID: NumericOID},
	{oid: UUIDArrayOID, name: "_uuid", kind: KindArray, elementOID: UUIDOID},

	{oid: RecordOID, name: "record", kind: KindComposite},

	{oid: Int4RangeOID, name: "int4range", kind: KindRange, elementOID: Int4OID},
	{oid: Int8RangeOID, name: "int8range", kind: KindRange, elementOID: Int8OID},
	{oid: NumRangeOID, name: "numrange", kind: KindRange, elementOID: NumericOID},
	{oid: TsRangeOID, name: "tsrange", kind: KindRange, elementOID: TimestampOID},
	{oid: TstzRangeOID, name: "tstzrange", kind: KindRange, elementOID: TimestamptzOID},
	{oid: DateRangeOID, name: "daterange", kind: KindRange, elementOID: DateOID},
}

func registerDefaults(m *Map) {
	for i := range builtinTypes {
		bt := &builtinTypes[i]
		m.RegisterType(&Type{
			OID:        bt.oid,
			Name:       bt.name,
			Schema:     "pg_catalog",
			Kind:       bt.kind,
			ElementOID: bt.elementOID,
		})
		if bt.codec != nil {
			m.registerScalarCodec(bt.oid, bt.codec)
		}
	}
}
