package icon

import (
	"testing"

	"github.com/megaloader/megaloader/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every icon should render in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for i := range icons {
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("An unknown variant should fall back to plain", t, func() {
		viper.Set(key.IconsVariant, "fancy")
		So(Get(Success), ShouldEqual, "✓")
	})
}
