package util

import (
	"testing"

	"github.com/megaloader/megaloader/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("Video: Title?"), ShouldEqual, "Video_ Title_")
			So(SanitizeFilename(`a<b>c|d*e"f`), ShouldEqual, "a_b_c_d_e_f")
		})
		Convey("Should not allow path separators", func() {
			So(SanitizeFilename("../../etc/passwd"), ShouldEqual, ".._.._etc_passwd")
			So(SanitizeFilename(`dir\file.txt`), ShouldEqual, "dir_file.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file::name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should never return an empty or relative name", func() {
			So(SanitizeFilename(""), ShouldEqual, "_")
			So(SanitizeFilename(".."), ShouldEqual, "_")
			So(SanitizeFilename("  "), ShouldEqual, "_")
		})
		Convey("Should keep unicode", func() {
			So(SanitizeFilename("写真 01.jpg"), ShouldEqual, "写真 01.jpg")
		})
	})
}

func TestSplitExt(t *testing.T) {
	Convey("SplitExt", t, func() {
		stem, ext := SplitExt("photo.final.jpg")
		So(stem, ShouldEqual, "photo.final")
		So(ext, ShouldEqual, ".jpg")

		stem, ext = SplitExt("README")
		So(stem, ShouldEqual, "README")
		So(ext, ShouldEqual, "")

		stem, ext = SplitExt(".env")
		So(stem, ShouldEqual, ".env")
		So(ext, ShouldEqual, "")
	})
}

func TestFormatBytes(t *testing.T) {
	Convey("FormatBytes", t, func() {
		So(FormatBytes(0), ShouldEqual, "0 B")
		So(FormatBytes(1023), ShouldEqual, "1023 B")
		So(FormatBytes(1024), ShouldEqual, "1.0 KiB")
		So(FormatBytes(1536), ShouldEqual, "1.5 KiB")
		So(FormatBytes(5*1024*1024), ShouldEqual, "5.0 MiB")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/util/dir", 0o755), ShouldBeNil)
		So(afero.WriteFile(fs, "/tmp/util/dir/a.txt", []byte("a"), 0o644), ShouldBeNil)

		So(Delete("/tmp/util/dir/a.txt"), ShouldBeNil)
		exists, _ := afero.Exists(fs, "/tmp/util/dir/a.txt")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/util"), ShouldBeNil)
		exists, _ = afero.Exists(fs, "/tmp/util")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/util"), ShouldNotBeNil)
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		_, ok := s.Pop()
		So(ok, ShouldBeFalse)

		s.Push(1, 2, 3)
		So(s.Len(), ShouldEqual, 3)

		top, ok := s.Pop()
		So(ok, ShouldBeTrue)
		So(top, ShouldEqual, 3)
		So(s.Len(), ShouldEqual, 2)
	})
}
