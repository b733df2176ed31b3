package raster

import "image"

// composite blends src onto dest at origin (dest pixel coordinates)
// using the named Porter-Duff style operator. Unlike gogpu/gg's own
// Context (which composites paths against its own pixmap as it
// draws), this operates on two already-rasterized buffers, which is
// what layer composition needs.
func composite(dest, src *image.RGBA, origin image.Point, op Operator) {
	sb := src.Bounds()
	for sy := sb.Min.Y; sy < sb.Max.Y; sy++ {
		dy := origin.Y + (sy - sb.Min.Y)
		if dy < dest.Bounds().Min.Y || dy >= dest.Bounds().Max.Y {
			continue
		}
		for sx := sb.Min.X; sx < sb.Max.X; sx++ {
			dx := origin.X + (sx - sb.Min.X)
			if dx < dest.Bounds().Min.X || dx >= dest.Bounds().Max.X {
				continue
			}
			si := src.PixOffset(sx, sy)
			di := dest.PixOffset(dx, dy)
			blendPixel(dest.Pix[di:di+4], src.Pix[si:si+4], op)
		}
	}
}

// blendPixel applies op to a single straight-alpha RGBA pixel pair,
// writing the result into dst in place. The Porter-Duff equations are
// naturally expressed over premultiplied color, so channels are
// premultiplied by their own alpha going in and unpremultiplied by
// the output alpha coming out.
func blendPixel(dst, src []byte, op Operator) {
	sa := channel(src[3])
	da := channel(dst[3])
	sr, sg, sb := channel(src[0])*sa, channel(src[1])*sa, channel(src[2])*sa
	dr, dg, db := channel(dst[0])*da, channel(dst[1])*da, channel(dst[2])*da

	var or, og, ob, oa float64
	switch op {
	case OpXor:
		or = sr*(1-da) + dr*(1-sa)
		og = sg*(1-da) + dg*(1-sa)
		ob = sb*(1-da) + db*(1-sa)
		oa = sa*(1-da) + da*(1-sa)
	case OpMultiply:
		or = sr*dr + sr*(1-da) + dr*(1-sa)
		og = sg*dg + sg*(1-da) + dg*(1-sa)
		ob = sb*db + sb*(1-da) + db*(1-sa)
		oa = sa + da - sa*da
	case OpIn:
		// src shown only where dst is opaque
		or, og, ob, oa = sr*da, sg*da, sb*da, sa*da
	case OpOut:
		// src shown only where dst is transparent
		or, og, ob, oa = sr*(1-da), sg*(1-da), sb*(1-da), sa*(1-da)
	case OpDestIn:
		or, og, ob, oa = dr*sa, dg*sa, db*sa, da*sa
	case OpDestOut:
		or, og, ob, oa = dr*(1-sa), dg*(1-sa), db*(1-sa), da*(1-sa)
	case OpOver:
		fallthrough
	default:
		// source-over: out = src + dst*(1-sa)
		or = sr + dr*(1-sa)
		og = sg + dg*(1-sa)
		ob = sb + db*(1-sa)
		oa = sa + da*(1-sa)
	}

	if oa > 0 {
		or, og, ob = or/oa, og/oa, ob/oa
	}
	dst[0] = toByte(or)
	dst[1] = toByte(og)
	dst[2] = toByte(ob)
	dst[3] = toByte(oa)
}

// channel converts a byte in [0,255] into a [0,1] float.
func channel(b byte) float64 { return float64(b) / 255 }

func toByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
