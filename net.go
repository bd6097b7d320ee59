package pgwire

import (
	"net"
)

// Network address family is dependent on server socket.h value for AF_INET.
// In practice, all platforms use 2 for AF_INET and the server hard-codes
// AF_INET+1 for IPv6.
const (
	defaultAFInet  = 2
	defaultAFInet6 = 3
)

// InetCodec transcodes inet and cidr: a family byte, a prefix length, an
// is_cidr flag, and the 4 or 16 raw address bytes. Values are *net.IPNet.
// With RequireNetwork set (cidr) an address with host bits set to the
// right of the mask is rejected the way the server rejects it.
type InetCodec struct {
	TypeName       string
	RequireNetwork bool
}

func (InetCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (InetCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (c InetCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var ipnet *net.IPNet
	switch value := value.(type) {
	case *net.IPNet:
		ipnet = value
	case net.IP:
		bitCount := len(value) * 8
		ipnet = &net.IPNet{IP: value, Mask: net.CIDRMask(bitCount, bitCount)}
	case string:
		var err error
		_, ipnet, err = net.ParseCIDR(value)
		if err != nil {
			ip := net.ParseIP(value)
			if ip == nil {
				return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "a network address"}
			}
			bitCount := len(ip) * 8
			ipnet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bitCount, bitCount)}
		}
	default:
		return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "a network address"}
	}

	ip := ipnet.IP
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	ones, _ := ipnet.Mask.Size()

	if c.RequireNetwork && !ip.Equal(ip.Mask(ipnet.Mask)) {
		return nil, &InvalidArgumentError{Message: c.TypeName + ": value has bits set to right of mask"}
	}

	if format == TextFormatCode {
		return append(buf, ipnet.String()...), nil
	}
	if format != BinaryFormatCode {
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}

	var family byte
	switch len(ip) {
	case net.IPv4len:
		family = defaultAFInet
	case net.IPv6len:
		family = defaultAFInet6
	default:
		return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "an IPv4 or IPv6 address"}
	}

	buf = append(buf, family)
	buf = append(buf, byte(ones))
	var isCIDR byte
	if c.RequireNetwork {
		isCIDR = 1
	}
	buf = append(buf, isCIDR)
	buf = append(buf, byte(len(ip)))
	return append(buf, ip...), nil
}

func (c InetCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		return parseTextInet(c.TypeName, string(src))
	}

	if len(src) != 8 && len(src) != 20 {
		return nil, &ProtocolError{Message: c.TypeName + " requires 8 or 20 bytes"}
	}

	bits := src[1]
	addrLen := int(src[3])
	if len(src[4:]) != addrLen {
		return nil, &ProtocolError{Message: c.TypeName + " payload incomplete"}
	}

	ipnet := &net.IPNet{
		IP:   make(net.IP, addrLen),
		Mask: net.CIDRMask(int(bits), addrLen*8),
	}
	copy(ipnet.IP, src[4:])

	return ipnet, nil
}

func parseTextInet(typeName, s string) (interface{}, error) {
	if ip, ipnet, err := net.ParseCIDR(s); err == nil {
		if v4 := ip.To4(); v4 != nil {
			ip = v4
			ipnet.IP = ipnet.IP.To4()
		}
		ipnet.IP = ip
		return ipnet, nil
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, &ProtocolError{Message: "malformed " + typeName + " text payload: " + s}
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	bitCount := len(ip) * 8
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bitCount, bitCount)}, nil
}

// MacaddrCodec transcodes macaddr as 6 raw bytes. Values are
// net.HardwareAddr.
type MacaddrCodec struct{}

func (MacaddrCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (MacaddrCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (MacaddrCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var addr net.HardwareAddr
	switch value := value.(type) {
	case net.HardwareAddr:
		addr = value
	case string:
		var err error
		addr, err = net.ParseMAC(value)
		if err != nil {
			return nil, &TypeMismatchError{TypeName: "macaddr", Value: value, Expected: "a MAC address"}
		}
	default:
		return nil, &TypeMismatchError{TypeName: "macaddr", Value: value, Expected: "a MAC address"}
	}
	if len(addr) != 6 {
		return nil, &TypeMismatchError{TypeName: "macaddr", Value: value, Expected: "a 6-byte MAC address"}
	}

	switch format {
	case BinaryFormatCode:
		return append(buf, addr...), nil
	case TextFormatCode:
		return append(buf, addr.String()...), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (MacaddrCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		addr, err := net.ParseMAC(string(src))
		if err != nil {
			return nil, &ProtocolError{Message: "malformed macaddr text payload: " + string(src)}
		}
		return addr, nil
	}

	if len(src) != 6 {
		return nil, &ProtocolError{Message: "macaddr requires 6 bytes"}
	}
	addr := make(net.HardwareAddr, 6)
	copy(addr, src)
	return addr, nil
}
